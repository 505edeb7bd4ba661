package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/crudgen/internal/cli/output"
	"github.com/leapstack-labs/crudgen/internal/template"
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [template-file...]",
		Short: "Report template structure that renders in a degraded way",
		Long: `Parse templates and report unclosed blocks, stray close markers, and
nested blocks of the same kind. These never stop rendering: the affected
markers are left in the output as written.

Without arguments every available scaffold template is checked.`,
		Example: `  # Check the scaffold templates
  crudgen check

  # Check a single file and fail on findings
  crudgen check templates/model.tpl --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any diagnostic is found")
	return cmd
}

func runCheck(cmd *cobra.Command, files []string, strict bool) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	templates, err := parseForCheck(cmdCtx, files)
	if err != nil {
		return err
	}

	results := make([]output.CheckOutput, len(templates))
	total := 0
	for i, tmpl := range templates {
		res := output.CheckOutput{File: tmpl.File, Keys: tmpl.Keys(), Diagnostics: []output.DiagnosticOutput{}}
		for _, d := range tmpl.Diagnostics {
			pos := d.Position()
			res.Diagnostics = append(res.Diagnostics, output.DiagnosticOutput{
				Line:    pos.Line,
				Column:  pos.Column,
				Kind:    d.Kind.String(),
				Block:   d.Block.String(),
				Message: d.Error(),
			})
		}
		total += len(res.Diagnostics)
		results[i] = res
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Template check (%d findings)", total)))
		for _, res := range results {
			r.Println("")
			r.Println(output.FormatHeader(2, res.File))
			r.Println(output.FormatKeyValue("Keys", fmt.Sprintf("%v", res.Keys)))
			for _, d := range res.Diagnostics {
				r.Println("- " + d.Message)
			}
		}
	default:
		for _, res := range results {
			if len(res.Diagnostics) == 0 {
				r.Success(res.File)
				continue
			}
			for _, d := range res.Diagnostics {
				r.Warning(d.Message)
			}
		}
	}

	if strict && total > 0 {
		return fmt.Errorf("%d template diagnostics found", total)
	}
	return nil
}

func parseForCheck(cmdCtx *CommandContext, files []string) ([]*template.Template, error) {
	var templates []*template.Template

	if len(files) == 0 {
		loader := newTemplateLoader(cmdCtx.Cfg)
		names, err := loader.Names()
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			tmpl, err := loader.Load(name)
			if err != nil {
				return nil, err
			}
			templates = append(templates, tmpl)
		}
		return templates, nil
	}

	for _, path := range files {
		src, err := os.ReadFile(path) //nolint:gosec // G304: user-provided template path
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}
		templates = append(templates, template.Parse(string(src), path))
	}
	return templates, nil
}
