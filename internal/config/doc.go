// Package config manages user-level settings stored at ~/.mcpkit/config.yaml.
// Values can be overridden with MCPKIT_* environment variables and are
// exposed both as raw keys (Get/Set) and as a typed Settings snapshot.
package config
