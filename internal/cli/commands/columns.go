package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/crudgen/internal/cli/output"
	"github.com/leapstack-labs/crudgen/internal/scaffold"
	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var noPrefix bool

	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "Show the columns of a table as templates see them",
		Long: `Introspect a table and show each column with the kind exposed to
templates as i.type (id, text, number, or unknown).

The configured table prefix is prepended unless --no-prefix is given.`,
		Example: `  crudgen columns posts
  crudgen columns posts --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runColumns(cmd, args[0], noPrefix)
		},
	}

	cmd.Flags().BoolVar(&noPrefix, "no-prefix", false, "Do not prepend the configured table prefix")
	return cmd
}

func runColumns(cmd *cobra.Command, table string, noPrefix bool) error {
	cmdCtx := NewCommandContext(cmd)
	cfg, r := cmdCtx.Cfg, cmdCtx.Renderer

	if !noPrefix {
		table = cfg.Prefix + table
	}

	a, err := openAdapter(cmd.Context(), cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	meta, err := a.GetTableMetadata(cmd.Context(), table)
	if err != nil {
		return fmt.Errorf("failed to introspect table %s: %w", table, err)
	}

	kinds := scaffold.Describe(meta)
	out := output.ColumnsOutput{
		Table:    meta.Name,
		Schema:   meta.Schema,
		RowCount: meta.RowCount,
		Columns:  make([]output.ColumnOutput, len(meta.Columns)),
	}
	rows := make([][]string, len(meta.Columns))
	for i, c := range meta.Columns {
		out.Columns[i] = output.ColumnOutput{
			Name:     c.Name,
			Kind:     string(kinds[i].Kind),
			Type:     c.Type,
			Nullable: c.Nullable,
		}
		rows[i] = []string{c.Name, string(kinds[i].Kind), c.Type, strconv.FormatBool(c.Nullable)}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	r.Header(1, fmt.Sprintf("%s (%d columns, %d rows)", table, len(out.Columns), out.RowCount))
	r.Table([]string{"Column", "Kind", "Type", "Nullable"}, rows)
	return nil
}
