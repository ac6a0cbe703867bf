package sandbox

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/fs"
)

// fakeLister serves directory listings from memory.
type fakeLister map[string][]dirEntry

func (f fakeLister) list(rel string) ([]dirEntry, error) {
	entries, ok := f[rel]
	if !ok {
		return nil, errors.New("no such directory: " + rel)
	}
	return entries, nil
}

func file(name string, size int64) dirEntry { return dirEntry{name: name, size: size} }
func dir(name string) dirEntry              { return dirEntry{name: name, isDir: true} }

func TestBuildTree(t *testing.T) {
	tests := []struct {
		name        string
		lister      fakeLister
		start       string
		rules       *IgnoreRules
		depth       int
		maxChildren int
		want        []TreeEntry
	}{
		{
			name:        "cap emits one marker",
			lister:      fakeLister{"": {file("a", 1), file("b", 2), file("c", 3), file("d", 4)}},
			depth:       1,
			maxChildren: 2,
			want: []TreeEntry{
				{Name: "a", Kind: EntryFile, Size: 1, Level: 1},
				{Name: "b", Kind: EntryFile, Size: 2, Level: 1},
				{Kind: EntryCapped, Level: 1},
			},
		},
		{
			name:        "exactly at cap has no marker",
			lister:      fakeLister{"": {file("a", 1), file("b", 2)}},
			depth:       1,
			maxChildren: 2,
			want: []TreeEntry{
				{Name: "a", Kind: EntryFile, Size: 1, Level: 1},
				{Name: "b", Kind: EntryFile, Size: 2, Level: 1},
			},
		},
		{
			name:        "ignored entries do not count toward the cap",
			lister:      fakeLister{"": {dir(".git"), file("a", 1), dir("node_modules"), file("b", 2)}},
			rules:       NewIgnoreRules(),
			depth:       1,
			maxChildren: 2,
			want: []TreeEntry{
				{Name: "a", Kind: EntryFile, Size: 1, Level: 1},
				{Name: "b", Kind: EntryFile, Size: 2, Level: 1},
			},
		},
		{
			name:        "only ignored siblings left means no marker",
			lister:      fakeLister{"": {file("a", 1), file("b", 2), dir("node_modules")}},
			rules:       NewIgnoreRules(),
			depth:       1,
			maxChildren: 2,
			want: []TreeEntry{
				{Name: "a", Kind: EntryFile, Size: 1, Level: 1},
				{Name: "b", Kind: EntryFile, Size: 2, Level: 1},
			},
		},
		{
			name: "ignored directories are never listed",
			lister: fakeLister{
				"":      {dir("build"), dir("src")},
				"src":   {file("main.go", 10)},
				"build": {file("out.js", 99)},
			},
			rules:       NewIgnoreRules("build/"),
			depth:       3,
			maxChildren: 10,
			want: []TreeEntry{
				{Name: "src", Kind: EntryDir, Level: 1},
				{Name: "main.go", Kind: EntryFile, Size: 10, Level: 2},
			},
		},
		{
			name: "depth bounds descent",
			lister: fakeLister{
				"":    {dir("a")},
				"a":   {dir("b")},
				"a/b": {file("c", 1)},
			},
			depth:       2,
			maxChildren: 10,
			want: []TreeEntry{
				{Name: "a", Kind: EntryDir, Level: 1},
				{Name: "b", Kind: EntryDir, Level: 2},
			},
		},
		{
			name: "nested cap keeps parent siblings",
			lister: fakeLister{
				"":  {dir("d"), file("z", 1)},
				"d": {file("x", 1), file("y", 1), file("w", 1)},
			},
			depth:       2,
			maxChildren: 2,
			want: []TreeEntry{
				{Name: "d", Kind: EntryDir, Level: 1},
				{Name: "x", Kind: EntryFile, Size: 1, Level: 2},
				{Name: "y", Kind: EntryFile, Size: 1, Level: 2},
				{Kind: EntryCapped, Level: 2},
				{Name: "z", Kind: EntryFile, Size: 1, Level: 1},
			},
		},
		{
			name:        "subtree start uses root relative ignore paths",
			lister:      fakeLister{"pkg": {dir("node_modules"), file("index.js", 3)}},
			start:       "pkg",
			rules:       NewIgnoreRules(),
			depth:       1,
			maxChildren: 5,
			want: []TreeEntry{
				{Name: "index.js", Kind: EntryFile, Size: 3, Level: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildTree(tt.lister, tt.rules, tt.start, tt.depth, tt.maxChildren)
			assert.NilError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("buildTree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildTreeListingError(t *testing.T) {
	_, err := buildTree(fakeLister{"": {dir("gone")}}, nil, "", 2, 10)
	assert.ErrorContains(t, err, "listing gone")
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5120.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, FormatSize(tt.in), tt.want)
	}
}

func newFixture(t *testing.T) *Sandbox {
	t.Helper()
	dir := fs.NewDir(t, "repo",
		fs.WithFile(".gitignore", "build/\n*.log\n# comment\n"),
		fs.WithFile("README.md", "hello"),
		fs.WithFile("app.log", "x"),
		fs.WithDir("build", fs.WithFile("out.js", "compiled")),
		fs.WithDir("node_modules", fs.WithDir("x", fs.WithFile("index.js", "module"))),
		fs.WithDir("src",
			fs.WithFile("main.go", "package main\n"),
			fs.WithDir("util",
				fs.WithFile("strings.go", "package util\n"),
				fs.WithDir("deep", fs.WithFile("d.go", "package deep\n")),
			),
		),
	)
	s, err := Initialize(dir.Path())
	assert.NilError(t, err)
	return s
}

func TestRenderTree(t *testing.T) {
	s := newFixture(t)

	tests := []struct {
		name    string
		subPath string
		depth   int
		want    []string
	}{
		{
			name:  "root depth 2",
			depth: 2,
			want: []string{
				"📂 ./",
				"  📄 .gitignore (23.0 B)",
				"  📄 README.md (5.0 B)",
				"  📁 src/",
				"    📄 main.go (13.0 B)",
				"    📁 util/",
			},
		},
		{
			name:  "root depth 3",
			depth: 3,
			want: []string{
				"📂 ./",
				"  📄 .gitignore (23.0 B)",
				"  📄 README.md (5.0 B)",
				"  📁 src/",
				"    📄 main.go (13.0 B)",
				"    📁 util/",
				"      📁 deep/",
				"      📄 strings.go (13.0 B)",
			},
		},
		{
			name:    "sub path depth 1",
			subPath: "src",
			depth:   1,
			want: []string{
				"📂 src/",
				"  📄 main.go (13.0 B)",
				"  📁 util/",
			},
		},
		{
			name:    "nested sub path",
			subPath: "src/util/",
			depth:   5,
			want: []string{
				"📂 src/util/",
				"  📁 deep/",
				"    📄 d.go (13.0 B)",
				"  📄 strings.go (13.0 B)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.RenderTree(tt.subPath, tt.depth, 0)
			assert.NilError(t, err)
			if diff := cmp.Diff(tt.want, strings.Split(got, "\n")); diff != "" {
				t.Errorf("RenderTree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderTreeMaxChildren(t *testing.T) {
	s := newFixture(t)

	got, err := s.RenderTree("", 1, 2)
	assert.NilError(t, err)
	want := []string{
		"📂 ./",
		"  📄 .gitignore (23.0 B)",
		"  📄 README.md (5.0 B)",
		"  ... (max children reached)",
	}
	if diff := cmp.Diff(want, strings.Split(got, "\n")); diff != "" {
		t.Errorf("RenderTree mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderTreeErrors(t *testing.T) {
	s := newFixture(t)

	tests := []struct {
		name    string
		subPath string
		depth   int
		want    Kind
	}{
		{"depth zero", "", 0, KindInvalidArgument},
		{"depth six", "", 6, KindInvalidArgument},
		{"escape", "../", 3, KindPathTraversal},
		{"missing", "nope", 3, KindNotFound},
		{"file", "README.md", 3, KindNotADirectory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RenderTree(tt.subPath, tt.depth, 10)
			assert.Equal(t, KindOf(err), tt.want)
		})
	}
}

func TestRenderTreeDepthBounds(t *testing.T) {
	s := newFixture(t)
	for _, depth := range []int{MinDepth, MaxDepth} {
		_, err := s.RenderTree("", depth, 0)
		assert.NilError(t, err)
	}
}
