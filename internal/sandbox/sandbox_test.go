package sandbox

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

func TestInitialize(t *testing.T) {
	t.Run("with gitignore", func(t *testing.T) {
		dir := fs.NewDir(t, "init", fs.WithFile(".gitignore", "dist/\n"))
		s, err := Initialize(dir.Path())
		assert.NilError(t, err)
		assert.Equal(t, s.Root, dir.Path())
		assert.Equal(t, s.Message(), "Initialized repository at "+dir.Path()+"\n.gitignore loaded.")
		assert.Assert(t, s.Rules().Match("dist", true))
	})

	t.Run("without gitignore", func(t *testing.T) {
		dir := fs.NewDir(t, "init")
		s, err := Initialize(dir.Path())
		assert.NilError(t, err)
		assert.Assert(t, strings.HasSuffix(s.Message(), "\nNo .gitignore found."))
		assert.Assert(t, s.Rules().Match(".git", true))
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		dir := fs.NewDir(t, "init", fs.WithDir("child"))
		t.Chdir(dir.Path())
		s, err := Initialize("child")
		assert.NilError(t, err)
		assert.Assert(t, filepath.IsAbs(s.Root))
		assert.Equal(t, filepath.Base(s.Root), "child")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Initialize(filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, KindOf(err), KindNotFound)
	})

	t.Run("file", func(t *testing.T) {
		dir := fs.NewDir(t, "init", fs.WithFile("a.txt", "a"))
		_, err := Initialize(filepath.Join(dir.Path(), "a.txt"))
		assert.Equal(t, KindOf(err), KindNotADirectory)
	})
}

func TestInfoRender(t *testing.T) {
	dir := fs.NewDir(t, "info", fs.WithFile(".gitignore", ""))
	s, err := Initialize(dir.Path())
	assert.NilError(t, err)

	got := s.Info().Render()
	assert.Check(t, cmp.Contains(got, "- Path: "+dir.Path()))
	assert.Check(t, cmp.Contains(got, "- Exists: true"))
	assert.Check(t, cmp.Contains(got, "- Is Directory: true"))
	assert.Check(t, cmp.Contains(got, "- .gitignore: present"))

	assert.NilError(t, os.Remove(filepath.Join(dir.Path(), ".gitignore")))
	assert.Check(t, cmp.Contains(s.Info().Render(), "- .gitignore: not found"))
}

func TestKindOf(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), &Error{Kind: KindTooLarge, Size: 3})
	assert.Equal(t, KindOf(wrapped), KindTooLarge)
	assert.Equal(t, KindOf(errors.New("plain")), KindUnexpected)
	assert.Equal(t, KindOf(ErrNotInitialized), KindNotInitialized)
}
