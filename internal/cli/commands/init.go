package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/crudgen/internal/cli/output"
	intconfig "github.com/leapstack-labs/crudgen/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var withTemplates bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize crudgen in a project",
		Long: `Initialize crudgen with a starter configuration.

This creates:
  - crudgen.yaml configuration file

Use --with-templates to also copy the built-in scaffold templates into
templates/ for customization.`,
		Example: `  # Initialize in current directory
  crudgen init

  # Initialize with editable templates
  crudgen init --with-templates

  # Force overwrite existing config
  crudgen init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
			return runInit(r, dir, force, withTemplates)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&withTemplates, "with-templates", false, "Copy the built-in templates into templates/")

	return cmd
}

func runInit(r *output.Renderer, dir string, force, withTemplates bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, intconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", intconfig.ConfigFileName)
	}

	files, err := copyProjectTemplate("minimal", dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	if withTemplates {
		ejected, err := ejectTemplates(filepath.Join(dir, intconfig.DefaultTemplatesDir), force)
		if err != nil {
			return fmt.Errorf("failed to copy templates: %w", err)
		}
		for _, f := range ejected {
			files = append(files, filepath.Join(intconfig.DefaultTemplatesDir, f))
		}
	}

	for _, f := range files {
		r.Success(filepath.ToSlash(f))
	}

	r.Println("")
	r.Success("crudgen initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Point target in crudgen.yaml at your database")
	r.Println("  2. Run 'crudgen columns <table>' to check the connection")
	r.Println("  3. Run 'crudgen make <table>' to generate the scaffold")

	return nil
}
