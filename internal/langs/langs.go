// Package langs maps file extensions to language tags.
package langs

import (
	_ "embed"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

// Unknown is returned for extensions missing from the table.
const Unknown = "unknown"

//go:embed languages.yaml
var rawLanguages []byte

var (
	once  sync.Once
	table map[string]string
)

func load() {
	once.Do(func() {
		table = map[string]string{}
		_ = yaml.Unmarshal(rawLanguages, &table)
	})
}

// ForExtension returns the language for ext (".go", ".TS"). Matching is
// case-insensitive.
func ForExtension(ext string) string {
	load()
	if lang, ok := table[strings.ToLower(ext)]; ok {
		return lang
	}
	return Unknown
}

// Detect returns the language of the file at path based on its extension.
func Detect(path string) string {
	return ForExtension(filepath.Ext(path))
}
