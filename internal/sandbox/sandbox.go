package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Limits applied when callers pass zero values.
const (
	DefaultMaxBytes    int64 = 1 << 20
	DefaultMaxLines          = 1000
	DefaultMaxChildren       = 100
	DefaultDepth             = 3
	MinDepth                 = 1
	MaxDepth                 = 5
)

// Sandbox is the browsing context of one session. It is immutable after
// Initialize returns.
type Sandbox struct {
	// Root is the absolute, cleaned repository directory.
	Root string

	rules         *IgnoreRules
	hasIgnoreFile bool
}

// Initialize validates rootPath and loads its ignore rules.
func Initialize(rootPath string) (*Sandbox, error) {
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, newError(KindUnexpected, rootPath, fmt.Errorf("resolving path: %w", err))
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newError(KindNotFound, root, nil)
		}
		return nil, newError(KindUnexpected, root, err)
	}
	if !info.IsDir() {
		return nil, newError(KindNotADirectory, root, nil)
	}

	rules, found, err := loadIgnoreRules(root)
	if err != nil {
		return nil, newError(KindUnexpected, root, err)
	}

	return &Sandbox{Root: root, rules: rules, hasIgnoreFile: found}, nil
}

// Rules returns the ignore rules loaded at initialization.
func (s *Sandbox) Rules() *IgnoreRules { return s.rules }

// Message is the confirmation returned to the client after Initialize.
func (s *Sandbox) Message() string {
	status := "No .gitignore found."
	if s.hasIgnoreFile {
		status = ".gitignore loaded."
	}
	return fmt.Sprintf("Initialized repository at %s\n%s", s.Root, status)
}

// Info describes the current state of the root on disk.
type Info struct {
	Path       string
	Exists     bool
	IsDir      bool
	IgnoreFile bool
}

// Info stats the root again; the directory may have changed since
// Initialize.
func (s *Sandbox) Info() Info {
	info := Info{Path: s.Root}
	if st, err := os.Stat(s.Root); err == nil {
		info.Exists = true
		info.IsDir = st.IsDir()
	}
	if _, err := os.Stat(filepath.Join(s.Root, IgnoreFile)); err == nil {
		info.IgnoreFile = true
	}
	return info
}

// Render formats Info as the multi-line summary shown to clients.
func (i Info) Render() string {
	ignoreStatus := "not found"
	if i.IgnoreFile {
		ignoreStatus = "present"
	}
	return fmt.Sprintf("Repository Info:\n    - Path: %s\n    - Exists: %t\n    - Is Directory: %t\n    - .gitignore: %s",
		i.Path, i.Exists, i.IsDir, ignoreStatus)
}
