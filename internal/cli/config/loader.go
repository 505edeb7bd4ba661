package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/crudgen/internal/config"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// flagKeys maps flags whose names differ from their config keys.
var flagKeys = map[string]string{
	"db-type":    "target.type",
	"database":   "target.database",
	"schema":     "target.schema",
	"log-level":  "log.level",
	"log-format": "log.format",
	"seq-url":    "log.seq_url",
}

// nestedSections are the config sections reachable from environment
// variables: CRUDGEN_TARGET_PASSWORD -> target.password.
var nestedSections = []string{"target", "routes", "log", "watch"}

func defaults() map[string]any {
	m := map[string]any{
		"target.type":     sharedcfg.DefaultTargetType,
		"target.database": sharedcfg.DefaultDatabase,
		"prefix":          "",
		"base_path":       sharedcfg.DefaultBasePath,
		"templates_dir":   sharedcfg.DefaultTemplatesDir,
		"routes.file":     sharedcfg.DefaultRoutesFile,
		"routes.line":     sharedcfg.DefaultRouteLine,
		"log.level":       sharedcfg.DefaultLogLevel,
		"log.format":      sharedcfg.DefaultLogFormat,
		"watch.debounce":  sharedcfg.DefaultWatchDebounce,
		"verbose":         false,
		"output":          DefaultOutput,
	}
	return m
}

// layoutDelim separates config keys of the layout section. Target names
// contain dots ("view.add"), so the section is loaded on its own with a
// delimiter that cannot appear in a target name.
const layoutDelim = "/"

// envKey transforms an environment variable name into a config key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, sharedcfg.EnvPrefix))
	for _, section := range nestedSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// layoutEnvKey maps CRUDGEN_LAYOUT_VIEW_ADD to layout/view.add and ignores
// every other variable.
func layoutEnvKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, sharedcfg.EnvPrefix))
	rest, ok := strings.CutPrefix(key, "layout_")
	if !ok || rest == "" {
		return ""
	}
	return "layout" + layoutDelim + strings.ReplaceAll(rest, "_", ".")
}

// loadLayout reads the layout section: defaults < config file < env vars.
func loadLayout(cfgFile string) (map[string]string, error) {
	lk := koanf.New(layoutDelim)

	values := make(map[string]any)
	for target, pattern := range sharedcfg.DefaultLayout() {
		values["layout"+layoutDelim+target] = pattern
	}
	if err := lk.Load(confmap.Provider(values, layoutDelim), nil); err != nil {
		return nil, fmt.Errorf("failed to load layout defaults: %w", err)
	}
	if cfgFile != "" {
		if err := lk.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}
	if err := lk.Load(env.Provider(sharedcfg.EnvPrefix, layoutDelim, layoutEnvKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	layout := make(map[string]string)
	for target, v := range lk.Cut("layout").All() {
		if v == nil {
			layout[target] = ""
			continue
		}
		layout[target] = fmt.Sprint(v)
	}
	return layout, nil
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Explicit --project-dir flag
//  2. Directory of an explicit config file
//  3. Search upward from CWD for crudgen.yaml
//  4. Current working directory
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if flags != nil && flags.Changed("project-dir") {
		if projectDir, _ := flags.GetString("project-dir"); projectDir != "" {
			if abs, err := filepath.Abs(projectDir); err == nil {
				return abs
			}
			return filepath.Clean(projectDir)
		}
	}

	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := sharedcfg.FindProjectRoot(cwd, maxUpwardSearchLevels); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// LoadConfig loads configuration from defaults, the config file, environment
// variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")
	configFileUsed = ""

	projectRoot := inferProjectRoot(cfgFile, flags)

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		cfgFile = sharedcfg.FindConfigFile(projectRoot)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Environment variables (CRUDGEN_ prefix)
	if err := k.Load(env.Provider(sharedcfg.EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Decode
	var cfg Config
	if err := unmarshal(k, &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	layout, err := loadLayout(configFileUsed)
	if err != nil {
		return nil, err
	}
	cfg.Layout = layout

	if cfg.Verbose && cfg.Log.Level > slog.LevelDebug {
		cfg.Log.Level = slog.LevelDebug
	}

	// 6. Resolve paths against the project root
	cfg.ProjectRoot = projectRoot
	cfg.BasePath = resolvePathRelativeTo(cfg.BasePath, projectRoot)
	cfg.TemplatesDir = resolvePathRelativeTo(cfg.TemplatesDir, projectRoot)

	if cfg.Target == nil {
		cfg.Target = &TargetConfig{Type: sharedcfg.DefaultTargetType}
	}
	sharedcfg.ApplyTargetDefaults(cfg.Target)
	expandTargetEnvVars(cfg.Target)
	if cfg.Target.IsFileBased() && cfg.Target.Database != ":memory:" {
		cfg.Target.Database = resolvePathRelativeTo(cfg.Target.Database, projectRoot)
	}

	if err := cfg.Target.Validate(); err != nil {
		return nil, fmt.Errorf("invalid target configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// unmarshal decodes the koanf tree into cfg. Text values decode into types
// implementing encoding.TextUnmarshaler (log levels) and durations.
func unmarshal(ko *koanf.Koanf, cfg *Config) error {
	return ko.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.TextUnmarshallerHookFunc(),
				mapstructure.StringToTimeDurationHookFunc(),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}

// expandTargetEnvVars expands environment variables in sensitive target fields.
func expandTargetEnvVars(t *TargetConfig) {
	if t == nil {
		return
	}
	t.Password = expandEnvVars(t.Password)
	t.User = expandEnvVars(t.User)
	t.Host = expandEnvVars(t.Host)
	t.Database = expandEnvVars(t.Database)
}
