package boilerplate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"go.yaml.in/yaml/v3"
)

//go:embed frameworks.yaml
var rawCatalog []byte

// Framework is one catalog entry.
type Framework struct {
	Name             string              `yaml:"name" json:"framework"`
	Title            string              `yaml:"title" json:"title"`
	Description      string              `yaml:"description" json:"description"`
	Version          string              `yaml:"version" json:"version"`
	Author           string              `yaml:"author" json:"author"`
	DefaultPackages  []string            `yaml:"default_packages" json:"defaultPackages"`
	OptionalPackages map[string][]string `yaml:"optional_packages" json:"optionalPackages"`
	Folders          []Folder            `yaml:"folders" json:"folderResponsibilities"`
	Files            []FileTemplate      `yaml:"files" json:"fileTemplates"`
	Feature          []PathTemplate      `yaml:"feature" json:"featureTemplates"`
	Queue            []PathTemplate      `yaml:"queue" json:"queueTemplates"`
}

// Folder is a directory of the base project and what belongs in it.
type Folder struct {
	Path           string `yaml:"path" json:"path"`
	Responsibility string `yaml:"responsibility" json:"responsibility"`
}

// IsPlaceholder reports whether the path documents a naming convention
// ("src/api/{module}/") rather than a concrete directory.
func (f Folder) IsPlaceholder() bool {
	return strings.ContainsAny(f.Path, "{}")
}

// FileTemplate is a file of the base project. Its content is the comment
// rendered as a single line comment.
type FileTemplate struct {
	Path    string `yaml:"path" json:"path"`
	Comment string `yaml:"comment" json:"comment"`
}

// PathTemplate is a text/template pair for feature and queue files.
type PathTemplate struct {
	Path    string `yaml:"path" json:"path"`
	Content string `yaml:"content" json:"content"`
}

var (
	catalogOnce sync.Once
	catalog     map[string]*Framework
	catalogErr  error
)

func loadCatalog() (map[string]*Framework, error) {
	catalogOnce.Do(func() {
		var list []*Framework
		if err := yaml.Unmarshal(rawCatalog, &list); err != nil {
			catalogErr = fmt.Errorf("parsing framework catalog: %w", err)
			return
		}
		catalog = make(map[string]*Framework, len(list))
		for _, fw := range list {
			if _, err := semver.StrictNewVersion(fw.Version); err != nil {
				catalogErr = fmt.Errorf("framework %s: invalid version %q: %w", fw.Name, fw.Version, err)
				return
			}
			if _, dup := catalog[fw.Name]; dup {
				catalogErr = fmt.Errorf("framework %s defined twice", fw.Name)
				return
			}
			catalog[fw.Name] = fw
		}
	})
	return catalog, catalogErr
}

// Names returns the supported framework names in sorted order.
func Names() ([]string, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (*Framework, error) {
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	fw, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("unsupported framework %q", name)
	}
	return fw, nil
}

// SemVer returns the parsed catalog version.
func (f *Framework) SemVer() *semver.Version {
	v, err := semver.StrictNewVersion(f.Version)
	if err != nil {
		// Unreachable: loadCatalog rejects invalid versions.
		return semver.New(0, 0, 0, "", "")
	}
	return v
}
