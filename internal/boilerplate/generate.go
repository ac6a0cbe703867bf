package boilerplate

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	securejoin "github.com/cyphar/filepath-securejoin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateName checks that a module or queue name is lowercase kebab-case.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must match %s", name, namePattern.String())
	}
	return nil
}

// TemplateData holds the variables available to feature and queue templates.
type TemplateData struct {
	Name      string // e.g., "user-profile"
	ClassName string // e.g., "UserProfile"
}

// NewTemplateData derives ClassName from a kebab-case name.
func NewTemplateData(name string) TemplateData {
	title := cases.Title(language.English)
	var b strings.Builder
	for _, part := range strings.Split(name, "-") {
		b.WriteString(title.String(part))
	}
	return TemplateData{Name: name, ClassName: b.String()}
}

// Result holds the outcome of a generation step.
type Result struct {
	BaseDir string
	Folders []string
	Created []string
	Skipped []string
}

// Total is the number of folders and files written.
func (r *Result) Total() int { return len(r.Folders) + len(r.Created) }

// Create writes the base project for fw under workDir/<fw.Name>. Existing
// files are left untouched and reported as skipped.
func Create(fw *Framework, workDir string) (*Result, error) {
	baseDir, err := securejoin.SecureJoin(workDir, fw.Name)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating project directory: %w", err)
	}

	result := &Result{BaseDir: baseDir}

	for _, folder := range fw.Folders {
		if folder.IsPlaceholder() {
			continue
		}
		dir, err := securejoin.SecureJoin(baseDir, folder.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving folder %s: %w", folder.Path, err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating folder %s: %w", folder.Path, err)
		}
		result.Folders = append(result.Folders, dir)
	}

	for _, file := range fw.Files {
		content := "// " + file.Comment + "\n\n"
		if err := writeNew(baseDir, file.Path, content, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// AddFeature renders the framework's feature templates for name into
// baseDir.
func AddFeature(fw *Framework, baseDir, name string) (*Result, error) {
	return render(fw.Feature, baseDir, name)
}

// AddQueue renders the framework's queue templates for name into baseDir.
func AddQueue(fw *Framework, baseDir, name string) (*Result, error) {
	return render(fw.Queue, baseDir, name)
}

func render(templates []PathTemplate, baseDir, name string) (*Result, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data := NewTemplateData(name)
	result := &Result{BaseDir: baseDir}

	for _, t := range templates {
		rel, err := execute(t.Path, data)
		if err != nil {
			return nil, err
		}
		content, err := execute(t.Content, data)
		if err != nil {
			return nil, err
		}
		if err := writeNew(baseDir, rel, content, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func execute(text string, data TemplateData) (string, error) {
	tmpl, err := template.New("path").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parsing template %q: %w", text, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template %q: %w", text, err)
	}
	return buf.String(), nil
}

// writeNew creates rel under baseDir unless it already exists.
func writeNew(baseDir, rel, content string, result *Result) error {
	full, err := securejoin.SecureJoin(baseDir, rel)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", rel, err)
	}

	if _, err := os.Stat(full); err == nil {
		result.Skipped = append(result.Skipped, full)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", rel, err)
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	result.Created = append(result.Created, full)
	return nil
}
