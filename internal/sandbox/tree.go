package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	units "github.com/docker/go-units"
)

// EntryKind distinguishes the lines of a rendered tree.
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryDir
	// EntryCapped marks a directory level whose remaining children were
	// cut by the child cap.
	EntryCapped
)

// TreeEntry is one line of a directory listing.
type TreeEntry struct {
	Name  string
	Kind  EntryKind
	Size  int64
	Level int
}

const cappedMarker = "... (max children reached)"

var sizeUnits = []string{"B", "KB", "MB"}

// FormatSize renders n bytes with one decimal in B, KB or MB (base 1024).
func FormatSize(n int64) string {
	return units.CustomSize("%.1f %s", float64(n), 1024.0, sizeUnits)
}

func (e TreeEntry) line() string {
	indent := strings.Repeat("  ", e.Level)
	switch e.Kind {
	case EntryDir:
		return indent + "📁 " + e.Name + "/"
	case EntryCapped:
		return indent + cappedMarker
	default:
		return indent + "📄 " + e.Name + " (" + FormatSize(e.Size) + ")"
	}
}

// dirEntry is what a dirLister reports for one child.
type dirEntry struct {
	name  string
	isDir bool
	size  int64
}

// dirLister lists a directory given its slash-separated path relative to the
// sandbox root ("" is the root). Entries must come back in name order.
type dirLister interface {
	list(rel string) ([]dirEntry, error)
}

// osLister reads from disk. Entries that are neither directories nor regular
// files (symlinks, sockets, devices) are dropped.
type osLister struct {
	root string
}

func (l osLister) list(rel string) ([]dirEntry, error) {
	entries, err := os.ReadDir(filepath.Join(l.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	out := make([]dirEntry, 0, len(entries))
	for _, e := range entries {
		switch {
		case e.IsDir():
			out = append(out, dirEntry{name: e.Name(), isDir: true})
		case e.Type().IsRegular():
			info, err := e.Info()
			if err != nil {
				return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
			}
			out = append(out, dirEntry{name: e.Name(), size: info.Size()})
		}
	}
	return out, nil
}

type frame struct {
	rel     string
	level   int
	entries []dirEntry
	next    int
	shown   int
}

// buildTree plans the listing below start without any formatting. The walk
// is depth-first pre-order over an explicit stack. Ignored entries are
// skipped without counting toward maxChildren; a capped level gets exactly
// one EntryCapped entry, and only when a visible sibling was cut.
func buildTree(l dirLister, rules *IgnoreRules, start string, depth, maxChildren int) ([]TreeEntry, error) {
	entries, err := l.list(start)
	if err != nil {
		return nil, err
	}
	stack := []*frame{{rel: start, level: 1, entries: entries}}

	var out []TreeEntry
	for len(stack) > 0 {
		f := stack[len(stack)-1]

		var next *dirEntry
		for f.next < len(f.entries) {
			cand := f.entries[f.next]
			if rules.Match(path.Join(f.rel, cand.name), cand.isDir) {
				f.next++
				continue
			}
			next = &cand
			break
		}
		if next == nil {
			stack = stack[:len(stack)-1]
			continue
		}
		if f.shown >= maxChildren {
			out = append(out, TreeEntry{Kind: EntryCapped, Level: f.level})
			stack = stack[:len(stack)-1]
			continue
		}
		f.next++
		f.shown++

		if !next.isDir {
			out = append(out, TreeEntry{Name: next.name, Kind: EntryFile, Size: next.size, Level: f.level})
			continue
		}
		out = append(out, TreeEntry{Name: next.name, Kind: EntryDir, Level: f.level})
		if f.level+1 > depth {
			continue
		}
		childRel := path.Join(f.rel, next.name)
		children, err := l.list(childRel)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", childRel, err)
		}
		stack = append(stack, &frame{rel: childRel, level: f.level + 1, entries: children})
	}
	return out, nil
}

// RenderTree lists subPath ("" for the root) down to depth levels, showing at
// most maxChildren visible entries per directory. maxChildren <= 0 selects
// DefaultMaxChildren.
func (s *Sandbox) RenderTree(subPath string, depth, maxChildren int) (string, error) {
	if depth < MinDepth || depth > MaxDepth {
		return "", newError(KindInvalidArgument, subPath,
			fmt.Errorf("depth %d outside %d..%d", depth, MinDepth, MaxDepth))
	}
	if maxChildren <= 0 {
		maxChildren = DefaultMaxChildren
	}

	target, err := s.Resolve(subPath)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newError(KindNotFound, subPath, nil)
		}
		return "", newError(KindUnexpected, subPath, err)
	}
	if !info.IsDir() {
		return "", newError(KindNotADirectory, subPath, nil)
	}

	start := s.relative(target)
	entries, err := buildTree(osLister{root: s.Root}, s.rules, start, depth, maxChildren)
	if err != nil {
		return "", newError(KindUnexpected, subPath, err)
	}

	label := start
	if label == "" {
		label = "."
	}
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "📂 "+label+"/")
	for _, e := range entries {
		lines = append(lines, e.line())
	}
	return strings.Join(lines, "\n"), nil
}
