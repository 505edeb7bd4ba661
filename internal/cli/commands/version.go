package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/crudgen/internal/adapter"
	"github.com/leapstack-labs/crudgen/internal/cli/output"
	"github.com/leapstack-labs/crudgen/internal/scaffold"
	"github.com/leapstack-labs/crudgen/internal/template"
	"github.com/spf13/cobra"
)

// VersionInfo is the JSON result of the version command.
type VersionInfo struct {
	Version   string   `json:"version"`
	Adapters  []string `json:"adapters"`
	Templates []string `json:"templates"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the crudgen version, the database adapters compiled in, and the
built-in scaffold templates.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, err := versionInfo(version)
			if err != nil {
				return err
			}

			mode := output.ModeText
			if f := cmd.Flag("output"); f != nil && f.Value.String() != "" {
				mode = output.Mode(f.Value.String())
			}
			r := output.NewRendererWithTTY(cmd.OutOrStdout(), cmd.ErrOrStderr(), false, mode)
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}

			r.Printf("crudgen v%s\n", info.Version)
			r.Printf("Adapters:  %s\n", joinOrNone(info.Adapters))
			r.Printf("Templates: %s\n", joinOrNone(info.Templates))
			return nil
		},
	}
}

func versionInfo(version string) (VersionInfo, error) {
	names, err := template.NewLoader(scaffold.DefaultTemplates()).Names()
	if err != nil {
		return VersionInfo{}, fmt.Errorf("failed to list built-in templates: %w", err)
	}
	return VersionInfo{
		Version:   version,
		Adapters:  adapter.ListAdapters(),
		Templates: names,
	}, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
