package sandbox

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFile is the name of the root-level ignore file.
const IgnoreFile = ".gitignore"

// DefaultIgnores are always excluded, before any .gitignore patterns.
var DefaultIgnores = []string{".git", "node_modules", "__pycache__"}

// IgnoreRules is an ordered, immutable set of gitignore patterns.
type IgnoreRules struct {
	patterns []string
	matcher  *ignore.GitIgnore
}

// NewIgnoreRules compiles DefaultIgnores followed by extra.
func NewIgnoreRules(extra ...string) *IgnoreRules {
	patterns := append(append([]string{}, DefaultIgnores...), extra...)
	return &IgnoreRules{
		patterns: patterns,
		matcher:  ignore.CompileIgnoreLines(patterns...),
	}
}

// Patterns returns a copy of the compiled patterns in order.
func (r *IgnoreRules) Patterns() []string {
	return append([]string(nil), r.patterns...)
}

// Match reports whether the root-relative, slash-separated path is excluded.
// Directories are also tried with a trailing slash so "build/" rules apply
// to the directory entry itself.
func (r *IgnoreRules) Match(rel string, isDir bool) bool {
	if r == nil || rel == "" {
		return false
	}
	if r.matcher.MatchesPath(rel) {
		return true
	}
	return isDir && r.matcher.MatchesPath(rel+"/")
}

// parseIgnoreLines keeps every non-blank line that is not a comment.
func parseIgnoreLines(content string) []string {
	var lines []string
	for _, l := range strings.Split(content, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" || strings.HasPrefix(l, "#") {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// loadIgnoreRules builds the rule set for root. found reports whether a
// .gitignore was present.
func loadIgnoreRules(root string) (rules *IgnoreRules, found bool, err error) {
	content, err := os.ReadFile(filepath.Join(root, IgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return NewIgnoreRules(), false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", IgnoreFile, err)
	}
	return NewIgnoreRules(parseIgnoreLines(string(content))...), true, nil
}
