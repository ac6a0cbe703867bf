package sandbox

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcpkit-labs/mcpkit/internal/langs"
)

// FileSlice is the result of ReadFile.
type FileSlice struct {
	// Path is the path as the caller gave it.
	Path      string
	Language  string
	Lines     int
	Truncated bool
	Content   string
}

// Render formats the slice for clients.
func (f *FileSlice) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\nLanguage: %s\nLines: %d\n\n%s", f.Path, f.Language, f.Lines, f.Content)
	if f.Truncated {
		b.WriteString("\n\n[truncated]")
	}
	return b.String()
}

// ReadFile returns the first maxLines lines of rel. Files larger than
// maxBytes are refused with KindTooLarge; content beyond maxBytes is never
// read. Symlinks are followed only while they stay inside the root.
// Non-positive limits select DefaultMaxBytes and DefaultMaxLines.
func (s *Sandbox) ReadFile(rel string, maxBytes int64, maxLines int) (*FileSlice, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	full, err := s.Resolve(rel)
	if err != nil {
		return nil, err
	}
	target, err := s.followInside(rel, full)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, newError(KindUnexpected, rel, fmt.Errorf("opening file: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, newError(KindUnexpected, rel, err)
	}
	if info.IsDir() {
		return nil, newError(KindInvalidArgument, rel, fmt.Errorf("%s is a directory", rel))
	}
	if info.Size() > maxBytes {
		return nil, &Error{Kind: KindTooLarge, Path: rel, Size: info.Size()}
	}

	raw, over, err := readCapped(f, maxBytes)
	if err != nil {
		return nil, newError(KindUnexpected, rel, fmt.Errorf("reading file: %w", err))
	}
	if over {
		return nil, &Error{Kind: KindTooLarge, Path: rel, Size: int64(len(raw))}
	}

	lines := strings.Split(string(raw), "\n")
	truncated := len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}

	return &FileSlice{
		Path:      rel,
		Language:  langs.Detect(full),
		Lines:     len(lines),
		Truncated: truncated,
		Content:   strings.Join(lines, "\n"),
	}, nil
}

// followInside resolves symlinks in full and checks the result is still
// below the root.
func (s *Sandbox) followInside(rel, full string) (string, error) {
	target, err := filepath.EvalSymlinks(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", newError(KindNotFound, rel, nil)
		}
		return "", newError(KindUnexpected, rel, err)
	}
	root, err := filepath.EvalSymlinks(s.Root)
	if err != nil {
		return "", newError(KindUnexpected, rel, fmt.Errorf("resolving root: %w", err))
	}
	if !IsContained(target, root) {
		return "", newError(KindPathTraversal, rel, nil)
	}
	return target, nil
}

// readCapped reads at most max bytes of r. over reports that r held more.
// The returned slice then holds max+1 bytes.
func readCapped(r io.Reader, max int64) (data []byte, over bool, err error) {
	data, err = io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, false, err
	}
	return data, int64(len(data)) > max, nil
}
