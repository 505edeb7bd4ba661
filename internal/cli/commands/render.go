package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/crudgen/internal/cli/output"
	"github.com/leapstack-labs/crudgen/internal/template"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var dataFile string
	var sets []string

	cmd := &cobra.Command{
		Use:   "render <template-file>",
		Short: "Render a template file with data from YAML, JSON, or flags",
		Long: `Render any template file with the [[ ]] template language.

Data is read from a YAML or JSON file with --data; --set key=value adds or
overrides top-level string values. Unresolved variables stay in the output
as written.

Output adapts to environment:
  - Terminal: the rendered text
  - Piped/Scripted: Markdown with code block`,
		Example: `  # Render with a data file
  crudgen render templates/model.tpl --data post.yaml

  # Set values inline
  crudgen render greeting.tpl --set name=World

  # Render as JSON
  crudgen render greeting.tpl --set name=World --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], dataFile, sets)
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML or JSON file with template data")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a value (key=value); repeatable")
	return cmd
}

func runRender(cmd *cobra.Command, path, dataFile string, sets []string) error {
	r := NewCommandContext(cmd).Renderer

	data, err := loadRenderData(dataFile, sets)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(path) //nolint:gosec // G304: user-provided template path
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	tmpl := template.Parse(string(src), path)
	for _, d := range tmpl.Diagnostics {
		r.Warning(d.Error())
	}
	rendered := tmpl.Execute(data)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.RenderOutput{Template: path, Output: rendered})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Rendered: "+filepath.Base(path)))
		r.Println("")
		r.Println(output.FormatCodeBlock("", rendered))
	default:
		r.Printf("%s", rendered)
	}
	return nil
}

// loadRenderData reads dataFile, if any, and applies key=value overrides.
func loadRenderData(dataFile string, sets []string) (template.Data, error) {
	data := template.Data{}

	if dataFile != "" {
		b, err := os.ReadFile(dataFile) //nolint:gosec // G304: user-provided data path
		if err != nil {
			return nil, fmt.Errorf("failed to read data file: %w", err)
		}
		if err := yaml.Unmarshal(b, &data); err != nil {
			return nil, fmt.Errorf("failed to parse data file %s: %w", dataFile, err)
		}
		if data == nil {
			data = template.Data{}
		}
	}

	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		data[key] = value
	}
	return data, nil
}
