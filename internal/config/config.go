package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcpkit-labs/mcpkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Settings is the typed view of every key the servers read.
type Settings struct {
	Server  ServerSettings  `mapstructure:"server"`
	Log     LogSettings     `mapstructure:"log"`
	Sandbox SandboxSettings `mapstructure:"sandbox"`
	Metrics MetricsSettings `mapstructure:"metrics"`
}

// ServerSettings configures the MCP transport.
type ServerSettings struct {
	Addr      string `mapstructure:"addr"`
	Transport string `mapstructure:"transport"`
	Endpoint  string `mapstructure:"endpoint"`
}

// LogSettings configures the zap logger.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SandboxSettings holds the repository browsing limits.
type SandboxSettings struct {
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
	MaxLines     int   `mapstructure:"max_lines"`
	MaxChildren  int   `mapstructure:"max_children"`
	DefaultDepth int   `mapstructure:"default_depth"`
}

// MetricsSettings toggles the Prometheus endpoint.
type MetricsSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

var defaults = map[string]any{
	"server.addr":            ":3000",
	"server.transport":       "stdio",
	"server.endpoint":        "/mcp",
	"log.level":              "info",
	"log.format":             "json",
	"sandbox.max_file_bytes": int64(1 << 20),
	"sandbox.max_lines":      1000,
	"sandbox.max_children":   100,
	"sandbox.default_depth":  3,
	"metrics.enabled":        true,
}

// Dir returns the path to the config directory (~/.mcpkit/).
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.mcpkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current decodes the loaded configuration into Settings.
func Current() (Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	return s, nil
}

// Keys returns every known configuration key.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return keys
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
