package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/leapstack-labs/crudgen/internal/cli/config"
	"github.com/leapstack-labs/crudgen/internal/cli/output"
	intconfig "github.com/leapstack-labs/crudgen/internal/config"
	"github.com/leapstack-labs/crudgen/internal/scaffold"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// confirmFunc asks a yes/no question on the terminal.
var confirmFunc = func(message string) (bool, error) {
	ok := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: false}, &ok)
	return ok, err
}

// stdinIsTerminal reports whether prompts can be shown.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

type makeOptions struct {
	yes    bool
	watch  bool
	dryRun bool
}

// NewMakeCommand creates the make command.
func NewMakeCommand() *cobra.Command {
	var req scaffold.Request
	var opts makeOptions

	cmd := &cobra.Command{
		Use:     "make <name> [custom_table_name]",
		Aliases: []string{"make:crud"},
		Short:   "Generate a model, controller, and views for a table",
		Long: `Generate CRUD scaffolding for a database table.

The table's columns are read from the configured database, then each target
template (model, controller, view.add, view.show, view.index) is rendered
into the configured layout and the route line is appended to the routes file.

The name is lowercased; the table is the name itself unless a custom table
name is given or --singular asks for the singular form.`,
		Example: `  # Scaffold the posts table
  crudgen make posts

  # Model "Post" for the table "post"
  crudgen make post --singular

  # Model "Category" reading the table "blog_cats"
  crudgen make category blog_cats

  # Delete previous outputs first
  crudgen make posts --recreate --yes

  # Regenerate whenever a template changes
  crudgen make posts --watch`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			if len(args) > 1 {
				req.CustomTable = args[1]
			}
			return runMake(cmd, req, opts)
		},
	}

	cmd.Flags().BoolVar(&req.Singular, "singular", false, "Use the singular form of the name as the table name")
	cmd.Flags().BoolVar(&req.Recreate, "recreate", false, "Delete previously generated files first")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when templates change")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be generated without writing files")

	return cmd
}

func runMake(cmd *cobra.Command, req scaffold.Request, opts makeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg, r := cmdCtx.Cfg, cmdCtx.Renderer
	ctx := cmd.Context()

	a, err := openAdapter(ctx, cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	gen := newGenerator(cfg, a, cmdCtx.Logger)

	if opts.dryRun {
		res, _, dests, err := gen.Plan(ctx, req)
		if err != nil {
			return err
		}
		return printPlan(r, cfg, res, dests)
	}

	if req.Recreate && !opts.yes {
		if !stdinIsTerminal() {
			return errors.New("--recreate deletes existing files; pass --yes to confirm when not running interactively")
		}
		ok, err := confirmFunc(fmt.Sprintf("Delete existing files generated for %q?", req.Name))
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("aborted")
		}
	}

	res, err := gen.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := printMakeResult(r, cfg, res); err != nil {
		return err
	}

	if !opts.watch {
		return nil
	}

	if info, err := os.Stat(cfg.TemplatesDir); err != nil || !info.IsDir() {
		return fmt.Errorf("templates directory %s does not exist\nHint: run 'crudgen templates --eject' to create it", cfg.TemplatesDir)
	}

	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.Muted(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", cfg.TemplatesDir))
	req.Recreate = false
	return scaffold.Watch(watchCtx, cfg.TemplatesDir, cfg.Watch.Debounce, cmdCtx.Logger, func(ctx context.Context) error {
		res, err := gen.Generate(ctx, req)
		if err != nil {
			r.Error(err.Error())
			return err
		}
		return printMakeResult(r, cfg, res)
	})
}

func makeOutput(cfg *config.Config, res *scaffold.Result) output.MakeOutput {
	out := output.MakeOutput{
		RunID:      res.RunID,
		Model:      res.Names.Model,
		Table:      res.Table,
		Columns:    make([]output.ColumnOutput, len(res.Columns)),
		RoutesFile: res.RoutesFile,
		RouteAdded: res.RouteAdded,
	}
	for i, c := range res.Columns {
		out.Columns[i] = output.ColumnOutput{Name: c.Name, Kind: string(c.Kind)}
	}
	for _, f := range res.Files {
		fo := output.FileOutput{Target: f.Target, Path: displayPath(cfg.BasePath, f.Path), Bytes: f.Bytes}
		for _, d := range f.Diagnostics {
			fo.Diagnostics = append(fo.Diagnostics, d.Error())
		}
		out.Files = append(out.Files, fo)
	}
	for _, p := range res.Deleted {
		out.Deleted = append(out.Deleted, displayPath(cfg.BasePath, p))
	}
	if out.RoutesFile != "" {
		out.RoutesFile = displayPath(cfg.BasePath, out.RoutesFile)
	}
	return out
}

func printMakeResult(r *output.Renderer, cfg *config.Config, res *scaffold.Result) error {
	out := makeOutput(cfg, res)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Scaffold: "+out.Model))
		r.Println("")
		r.Println(output.FormatKeyValue("Table", out.Table))
		r.Println(output.FormatKeyValue("Columns", fmt.Sprintf("%d", len(out.Columns))))
		r.Println(output.FormatKeyValue("Run ID", out.RunID))
		if len(out.Deleted) > 0 {
			r.Println("")
			r.Println(output.FormatHeader(2, "Deleted"))
			r.Println(output.FormatList(out.Deleted))
		}
		r.Println("")
		r.Println(output.FormatHeader(2, "Created"))
		for _, f := range out.Files {
			r.Println(fmt.Sprintf("- `%s` (%s)", f.Path, f.Target))
		}
		if out.RoutesFile != "" {
			r.Println("")
			r.Println(output.FormatHeader(2, "Routes"))
			r.Println(output.FormatKeyValue(out.RoutesFile, routeStatus(out.RouteAdded)))
		}
	default:
		r.Header(1, fmt.Sprintf("Creating %s from %s", out.Model, out.Table))
		for _, p := range out.Deleted {
			r.Muted("deleted " + p)
		}
		for _, f := range out.Files {
			r.Success("created " + f.Path)
			for _, d := range f.Diagnostics {
				r.Warning(d)
			}
		}
		if out.RoutesFile != "" {
			if out.RouteAdded {
				r.Success("route added to " + out.RoutesFile)
			} else {
				r.Muted("route already in " + out.RoutesFile)
			}
		}
	}
	return nil
}

func routeStatus(added bool) string {
	if added {
		return "route added"
	}
	return "route already present"
}

func printPlan(r *output.Renderer, cfg *config.Config, res *scaffold.Result, dests []string) error {
	targets := make([]string, len(dests))
	rows := make([][]string, len(dests))
	for i, d := range dests {
		targets[i] = displayPath(cfg.BasePath, d)
		rows[i] = []string{intconfig.Targets[i], targets[i]}
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := makeOutput(cfg, res)
		for i, p := range targets {
			out.Files = append(out.Files, output.FileOutput{Target: intconfig.Targets[i], Path: p})
		}
		return r.JSON(out)
	}

	r.Header(1, fmt.Sprintf("Plan for %s from %s", res.Names.Model, res.Table))
	r.Table([]string{"Target", "Destination"}, rows)
	return nil
}
