// Package branding provides compile-time identity values for the CLI and the
// MCP servers it hosts.
//
// Identity lives in branding.yaml next to this file and is baked into the
// binary with //go:embed, so forks only edit the YAML.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName           string `yaml:"cli_name"`
	DisplayName       string `yaml:"display_name"`
	Description       string `yaml:"description"`
	HomeDir           string `yaml:"home_dir"`
	EnvPrefix         string `yaml:"env_prefix"`
	GoModule          string `yaml:"go_module"`
	AnalysisServer    string `yaml:"analysis_server"`
	BoilerplateServer string `yaml:"boilerplate_server"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:           "mcpkit",
			DisplayName:       "MCPKit",
			Description:       "Code analysis and boilerplate tool servers for MCP clients",
			HomeDir:           ".mcpkit",
			EnvPrefix:         "MCPKIT",
			GoModule:          "github.com/mcpkit-labs/mcpkit",
			AnalysisServer:    "code-analysis",
			BoilerplateServer: "boilerplate-gen",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "mcpkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".mcpkit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MCPKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// AnalysisServer returns the MCP server name of the repository browser.
func AnalysisServer() string { load(); return defaults.AnalysisServer }

// BoilerplateServer returns the MCP server name of the scaffolder.
func BoilerplateServer() string { load(); return defaults.BoilerplateServer }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "MCPKIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
