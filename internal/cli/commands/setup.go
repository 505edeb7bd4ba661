package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leapstack-labs/crudgen/internal/adapter"
	"github.com/leapstack-labs/crudgen/internal/cli/config"
	"github.com/leapstack-labs/crudgen/internal/cli/output"
	intconfig "github.com/leapstack-labs/crudgen/internal/config"
	"github.com/leapstack-labs/crudgen/internal/scaffold"
	"github.com/leapstack-labs/crudgen/internal/template"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration, or the defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	return &config.Config{
		Target: &config.TargetConfig{
			Type:     intconfig.DefaultTargetType,
			Database: intconfig.DefaultDatabase,
			Schema:   intconfig.DefaultSchemaForType(intconfig.DefaultTargetType),
		},
		BasePath:     intconfig.DefaultBasePath,
		TemplatesDir: intconfig.DefaultTemplatesDir,
		Routes: config.RoutesConfig{
			File: intconfig.DefaultRoutesFile,
			Line: intconfig.DefaultRouteLine,
		},
		Layout:       intconfig.DefaultLayout(),
		OutputFormat: config.DefaultOutput,
	}
}

// openAdapter connects to the configured target database.
func openAdapter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (adapter.Adapter, error) {
	a, err := adapter.Open(ctx, cfg.Target.AdapterConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Target.Type, err)
	}
	return a, nil
}

// newTemplateLoader returns a loader that prefers files in the configured
// templates directory over the built-in templates.
func newTemplateLoader(cfg *config.Config) *template.Loader {
	return template.NewLoader(template.DirLayer(cfg.TemplatesDir), scaffold.DefaultTemplates())
}

func newGenerator(cfg *config.Config, a adapter.Adapter, logger *slog.Logger) *scaffold.Generator {
	return scaffold.New(scaffold.Config{
		Adapter:    a,
		Templates:  newTemplateLoader(cfg),
		Layout:     scaffold.Layout(cfg.Layout),
		BasePath:   cfg.BasePath,
		Prefix:     cfg.Prefix,
		RoutesFile: cfg.Routes.File,
		RouteLine:  cfg.Routes.Line,
		Logger:     logger,
	})
}

// displayPath shortens path relative to base for display.
func displayPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && filepath.IsLocal(rel) {
		return filepath.ToSlash(rel)
	}
	return path
}
