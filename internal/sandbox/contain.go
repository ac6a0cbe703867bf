package sandbox

import (
	"path/filepath"
	"strings"
)

// IsContained reports whether candidate is root itself or lies below it.
// Both paths are made absolute and cleaned; symlinks are not followed.
// The comparison is per path segment, so /a/bc is not inside /a/b.
func IsContained(candidate, root string) bool {
	c, err := filepath.Abs(candidate)
	if err != nil {
		return false
	}
	r, err := filepath.Abs(root)
	if err != nil {
		return false
	}
	if c == r {
		return true
	}
	prefix := r
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(c, prefix)
}

// Resolve maps a caller-supplied path onto the sandbox root. Relative paths
// are joined to the root; absolute paths are taken as-is. The result must
// pass IsContained or a KindPathTraversal error is returned.
func (s *Sandbox) Resolve(rel string) (string, error) {
	var candidate string
	if filepath.IsAbs(rel) {
		candidate = filepath.Clean(rel)
	} else {
		candidate = filepath.Join(s.Root, rel)
	}
	if !IsContained(candidate, s.Root) {
		return "", newError(KindPathTraversal, rel, nil)
	}
	return candidate, nil
}

// relative returns the slash-separated path of abs below the root, "" for the
// root itself.
func (s *Sandbox) relative(abs string) string {
	rel, err := filepath.Rel(s.Root, abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
