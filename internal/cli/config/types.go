// Package config provides configuration management for the crudgen CLI.
//
// The shared target configuration lives in internal/config and is
// re-exported here via a type alias.
package config

import (
	"log/slog"
	"time"

	sharedcfg "github.com/leapstack-labs/crudgen/internal/config"
)

// TargetConfig is an alias for the shared target configuration.
type TargetConfig = sharedcfg.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	Target       *TargetConfig `koanf:"target"`
	Prefix       string        `koanf:"prefix"` // table name prefix
	BasePath     string        `koanf:"base_path"`
	TemplatesDir string        `koanf:"templates_dir"`
	Routes       RoutesConfig  `koanf:"routes"`
	Log          LogConfig     `koanf:"log"`
	Watch        WatchConfig   `koanf:"watch"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`

	// Layout maps a scaffold target ("model", "view.add", ...) to its
	// destination pattern. Target names contain the key delimiter, so the
	// section is loaded on its own (see loadLayout).
	Layout map[string]string `koanf:"-"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// RoutesConfig configures route registration.
type RoutesConfig struct {
	File string `koanf:"file"`
	Line string `koanf:"line"` // rendered with the scaffold data
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  slog.Level `koanf:"level"`
	Format string     `koanf:"format"` // text or json
	SeqURL string     `koanf:"seq_url"`
}

// WatchConfig configures `make --watch`.
type WatchConfig struct {
	// Debounce coalesces bursts of file events into one regeneration.
	Debounce time.Duration `koanf:"debounce"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
