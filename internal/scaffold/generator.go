// Package scaffold generates CRUD source files for a database table: it
// introspects the table, builds the template context, renders each target
// template into the configured layout, and registers the route.
package scaffold

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/leapstack-labs/crudgen/internal/adapter"
	"github.com/leapstack-labs/crudgen/internal/config"
	"github.com/leapstack-labs/crudgen/internal/template"
	"golang.org/x/sync/errgroup"
)

// Templates loads parsed templates by target name.
type Templates interface {
	Load(name string) (*template.Template, error)
}

// Config configures a Generator.
type Config struct {
	Adapter   adapter.Adapter
	Templates Templates
	Sink      Sink // defaults to DiskSink
	Layout    Layout
	Targets   []string // defaults to config.Targets

	BasePath string
	Prefix   string // table name prefix

	RoutesFile string // relative to BasePath unless absolute; empty disables routing
	RouteLine  string // template for the route line

	// Parallelism bounds concurrent target rendering. Zero means one
	// goroutine per target.
	Parallelism int

	Logger *slog.Logger
}

// Generator creates scaffolds.
type Generator struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Generator.
func New(cfg Config) *Generator {
	if cfg.Sink == nil {
		cfg.Sink = DiskSink{}
	}
	if len(cfg.Targets) == 0 {
		cfg.Targets = config.Targets
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Request describes one scaffold.
type Request struct {
	Name        string
	CustomTable string
	Singular    bool // use the singular form of Name as the table name
	Recreate    bool // delete previous outputs first
}

// File is one generated file.
type File struct {
	Target      string
	Path        string
	Bytes       int
	Diagnostics []template.Diagnostic
}

// Result summarizes a generation run.
type Result struct {
	RunID      string
	Names      Names
	Table      string // introspected table, with prefix
	Columns    []Column
	Files      []File // in target order
	Deleted    []string
	RoutesFile string
	RouteAdded bool
	ExampleRow map[string]any
}

// Plan resolves names, columns, and destinations without writing anything.
func (g *Generator) Plan(ctx context.Context, req Request) (*Result, template.Data, []string, error) {
	names, err := NewNames(req.Name, req.CustomTable, req.Singular)
	if err != nil {
		return nil, nil, nil, err
	}

	table := g.cfg.Prefix + names.Table()
	meta, err := g.cfg.Adapter.GetTableMetadata(ctx, table)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to introspect table %s: %w", table, err)
	}

	cols := Describe(meta)
	data := BuildData(names, g.cfg.Prefix, cols)

	dests := make([]string, len(g.cfg.Targets))
	for i, target := range g.cfg.Targets {
		dest, err := g.cfg.Layout.Destination(g.cfg.BasePath, target, data)
		if err != nil {
			return nil, nil, nil, err
		}
		dests[i] = dest
	}

	res := &Result{Names: names, Table: table, Columns: cols}
	return res, data, dests, nil
}

// Generate runs a full scaffold for req.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	logger := g.logger.With(slog.String("run_id", runID), slog.String("name", req.Name))

	res, data, dests, err := g.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	res.RunID = runID
	logger.Info("creating scaffold",
		slog.String("model", res.Names.Model),
		slog.String("table", res.Table),
		slog.Int("columns", len(res.Columns)))

	// Every template must load before previous outputs are deleted.
	tmpls, err := g.loadTemplates()
	if err != nil {
		return nil, err
	}

	if req.Recreate {
		for _, dest := range dests {
			removed, err := g.cfg.Sink.Remove(dest)
			if err != nil {
				return nil, err
			}
			if removed {
				logger.Info("deleted", slog.String("path", dest))
				res.Deleted = append(res.Deleted, dest)
			}
		}
	}

	row, err := g.cfg.Adapter.FirstRow(ctx, res.Table)
	if err != nil {
		logger.Warn("failed to read example row", slog.String("error", err.Error()))
	} else {
		res.ExampleRow = row
		logger.Debug("example row", slog.Any("row", row))
	}

	files, err := g.render(ctx, logger, tmpls, data, dests)
	if err != nil {
		return nil, err
	}
	res.Files = files

	if g.cfg.RoutesFile != "" {
		path := g.cfg.RoutesFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(g.cfg.BasePath, path)
		}
		line := template.Render(g.cfg.RouteLine, data)
		added, err := AppendRoute(g.cfg.Sink, path, line)
		if err != nil {
			return nil, err
		}
		res.RoutesFile = path
		res.RouteAdded = added
		if added {
			logger.Info("route added", slog.String("path", path), slog.String("line", line))
		}
	}

	logger.Info("scaffold complete", slog.Int("files", len(res.Files)))
	return res, nil
}

// loadTemplates loads the template of every target, in target order.
func (g *Generator) loadTemplates() ([]*template.Template, error) {
	tmpls := make([]*template.Template, len(g.cfg.Targets))
	for i, target := range g.cfg.Targets {
		tmpl, err := g.cfg.Templates.Load(target)
		if err != nil {
			return nil, err
		}
		tmpls[i] = tmpl
	}
	return tmpls, nil
}

// render renders and writes every target concurrently. Files keep target
// order regardless of completion order.
func (g *Generator) render(ctx context.Context, logger *slog.Logger, tmpls []*template.Template, data template.Data, dests []string) ([]File, error) {
	files := make([]File, len(g.cfg.Targets))

	eg, egctx := errgroup.WithContext(ctx)
	if g.cfg.Parallelism > 0 {
		eg.SetLimit(g.cfg.Parallelism)
	}
	for i, target := range g.cfg.Targets {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			tmpl := tmpls[i]
			for _, d := range tmpl.Diagnostics {
				logger.Warn("template structure", slog.String("target", target), slog.String("diagnostic", d.Error()))
			}

			out := tmpl.Execute(data)
			if err := g.cfg.Sink.WriteFile(dests[i], []byte(out)); err != nil {
				return err
			}
			logger.Info("created", slog.String("target", target), slog.String("path", dests[i]))
			files[i] = File{Target: target, Path: dests[i], Bytes: len(out), Diagnostics: tmpl.Diagnostics}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
