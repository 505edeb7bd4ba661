package commands

import (
	"fmt"
	"io/fs"

	"github.com/leapstack-labs/crudgen/internal/cli/output"
	"github.com/leapstack-labs/crudgen/internal/template"
	"github.com/spf13/cobra"
)

// NewTemplatesCommand creates the templates command.
func NewTemplatesCommand() *cobra.Command {
	var eject bool
	var dir string
	var force bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List scaffold templates or eject the built-in ones",
		Long: `List the templates used by 'crudgen make' and where each one comes from.

Files in templates_dir override the built-in templates one by one. Use
--eject to copy the built-in templates there as a starting point.`,
		Example: `  # List templates
  crudgen templates

  # Copy built-in templates into templates_dir
  crudgen templates --eject

  # Copy into another directory, overwriting existing files
  crudgen templates --eject --dir stubs --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if eject {
				return runEject(cmd, dir, force)
			}
			return runTemplatesList(cmd)
		},
	}

	cmd.Flags().BoolVar(&eject, "eject", false, "Copy the built-in templates into a directory")
	cmd.Flags().StringVar(&dir, "dir", "", "Eject destination (default: templates_dir)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files when ejecting")
	return cmd
}

func runTemplatesList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg, r := cmdCtx.Cfg, cmdCtx.Renderer

	names, err := newTemplateLoader(cfg).Names()
	if err != nil {
		return err
	}

	user := template.DirLayer(cfg.TemplatesDir)
	infos := make([]output.TemplateInfo, len(names))
	rows := make([][]string, len(names))
	for i, name := range names {
		source := "builtin"
		if user != nil {
			if _, err := fs.Stat(user, name+template.Ext); err == nil {
				source = "user"
			}
		}
		infos[i] = output.TemplateInfo{Name: name, Source: source}
		rows[i] = []string{name, source}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}
	r.Header(1, fmt.Sprintf("Templates (%d)", len(infos)))
	r.Table([]string{"Name", "Source"}, rows)
	return nil
}

func runEject(cmd *cobra.Command, dir string, force bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	if dir == "" {
		dir = cmdCtx.Cfg.TemplatesDir
	}

	written, err := ejectTemplates(dir, force)
	if err != nil {
		return fmt.Errorf("failed to eject templates: %w", err)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"dir": dir, "written": written})
	}
	for _, f := range written {
		r.Success(f)
	}
	if len(written) == 0 {
		r.Muted("All templates already exist. Use --force to overwrite")
		return nil
	}
	r.Println("")
	r.Success(fmt.Sprintf("Ejected %d templates to %s", len(written), dir))
	return nil
}
