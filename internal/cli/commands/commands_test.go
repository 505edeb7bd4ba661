package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/crudgen/internal/cli/config"
	"github.com/leapstack-labs/crudgen/internal/cli/output"
	clitestutil "github.com/leapstack-labs/crudgen/internal/cli/testutil"
	"github.com/leapstack-labs/crudgen/internal/scaffold"
	"github.com/leapstack-labs/crudgen/internal/template"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/crudgen/internal/adapters/sqlite"
)

// loadProject loads the configuration of the project in dir, as the root
// command would before running a subcommand.
func loadProject(t *testing.T, dir, outputMode string) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("project-dir", "", "")
	fs.String("output", "", "")
	require.NoError(t, fs.Parse([]string{"--project-dir=" + dir, "--output=" + outputMode}))

	cfg, err := config.LoadConfig("", fs)
	require.NoError(t, err)
	return cfg
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewMakeCommand(), "make <name> [custom_table_name]", []string{"singular", "recreate", "yes", "watch", "dry-run"}},
		{NewColumnsCommand(), "columns <table>", []string{"no-prefix"}},
		{NewRenderCommand(), "render <template-file>", []string{"data", "set"}},
		{NewCheckCommand(), "check [template-file...]", []string{"strict"}},
		{NewTemplatesCommand(), "templates", []string{"eject", "dir", "force"}},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
	assert.Contains(t, NewMakeCommand().Aliases, "make:crud")
}

func TestMakeCommand(t *testing.T) {
	dir := clitestutil.SetupTestProject(t)
	loadProject(t, dir, "markdown")
	base := filepath.Join(dir, "out")

	out, _, err := execute(t, NewMakeCommand(), "post", "posts")
	require.NoError(t, err)

	assert.Contains(t, out, "# Scaffold: Post")
	assert.Contains(t, out, "- **Table**: posts")
	assert.Contains(t, out, "- `app/Post.php` (model)")
	assert.Contains(t, out, "- `resources/views/posts/index.blade.php` (view.index)")
	assert.Contains(t, out, "- **app/Http/routes.php**: route added")
	clitestutil.AssertValidMarkdown(t, out)
	clitestutil.AssertNoANSI(t, out)

	model, err := os.ReadFile(filepath.Join(base, "app", "Post.php"))
	require.NoError(t, err)
	assert.Contains(t, string(model), "protected $table = 'posts';")
	assert.Contains(t, string(model), "public $timestamps = false;")

	add, err := os.ReadFile(filepath.Join(base, "resources", "views", "posts", "add.blade.php"))
	require.NoError(t, err)
	assert.Contains(t, string(add), `<input type="text" class="form-control" name="title"`)
	assert.Contains(t, string(add), `<input type="number" class="form-control" name="views"`)
	assert.Contains(t, string(add), `<textarea class="form-control" name="body"`)

	routes, err := os.ReadFile(filepath.Join(base, "app", "Http", "routes.php"))
	require.NoError(t, err)
	assert.Equal(t, "\nRoute::controller('/posts', 'PostController');", string(routes))

	out, _, err = execute(t, NewMakeCommand(), "post", "posts")
	require.NoError(t, err)
	assert.Contains(t, out, "route already present")
}

func TestMakeCommand_Recreate(t *testing.T) {
	origConfirm, origTTY := confirmFunc, stdinIsTerminal
	t.Cleanup(func() { confirmFunc, stdinIsTerminal = origConfirm, origTTY })

	dir := clitestutil.SetupTestProject(t)
	loadProject(t, dir, "json")

	_, _, err := execute(t, NewMakeCommand(), "post", "posts")
	require.NoError(t, err)

	t.Run("non-interactive requires --yes", func(t *testing.T) {
		stdinIsTerminal = func() bool { return false }
		_, _, err := execute(t, NewMakeCommand(), "post", "posts", "--recreate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
	})

	t.Run("declined", func(t *testing.T) {
		stdinIsTerminal = func() bool { return true }
		confirmFunc = func(string) (bool, error) { return false, nil }
		_, _, err := execute(t, NewMakeCommand(), "post", "posts", "--recreate")
		require.Error(t, err)
		assert.Equal(t, "aborted", err.Error())
		assert.FileExists(t, filepath.Join(dir, "out", "app", "Post.php"))
	})

	t.Run("confirmed", func(t *testing.T) {
		var asked string
		stdinIsTerminal = func() bool { return true }
		confirmFunc = func(msg string) (bool, error) { asked = msg; return true, nil }

		out, _, err := execute(t, NewMakeCommand(), "post", "posts", "--recreate")
		require.NoError(t, err)
		assert.Contains(t, asked, `"post"`)

		var res output.MakeOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Len(t, res.Deleted, 5)
		assert.Len(t, res.Files, 5)
		assert.False(t, res.RouteAdded)
	})

	t.Run("--yes skips the prompt", func(t *testing.T) {
		confirmFunc = func(string) (bool, error) { t.Fatal("prompted"); return false, nil }
		_, _, err := execute(t, NewMakeCommand(), "post", "posts", "--recreate", "--yes")
		require.NoError(t, err)
	})
}

func TestMakeCommand_DryRun(t *testing.T) {
	dir := clitestutil.SetupTestProject(t)
	loadProject(t, dir, "json")

	out, _, err := execute(t, NewMakeCommand(), "post", "posts", "--dry-run")
	require.NoError(t, err)

	var res output.MakeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Post", res.Model)
	require.Len(t, res.Files, 5)
	assert.Equal(t, "app/Http/Controllers/PostController.php", res.Files[1].Path)
	assert.Equal(t, []output.ColumnOutput{
		{Name: "id", Kind: "id"},
		{Name: "title", Kind: "text"},
		{Name: "views", Kind: "number"},
		{Name: "body", Kind: "unknown"},
	}, res.Columns)

	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestMakeCommand_Errors(t *testing.T) {
	dir := clitestutil.SetupTestProject(t)
	loadProject(t, dir, "json")

	_, _, err := execute(t, NewMakeCommand(), "comments")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to introspect table comments")

	_, _, err = execute(t, NewMakeCommand())
	assert.Error(t, err, "name is required")
}

func TestPrintMakeResult(t *testing.T) {
	cfg := &config.Config{BasePath: "/srv/app"}
	res := &scaffold.Result{
		RunID:   "run-1",
		Names:   scaffold.Names{Model: "Post"},
		Table:   "posts",
		Columns: []scaffold.Column{{Name: "id", Kind: scaffold.KindID}},
		Files: []scaffold.File{
			{Target: "model", Path: "/srv/app/app/Post.php", Bytes: 10},
		},
		Deleted:    []string{"/srv/app/app/Post.php"},
		RoutesFile: "/srv/app/app/Http/routes.php",
		RouteAdded: true,
	}

	t.Run("text", func(t *testing.T) {
		tr := clitestutil.NewTestRenderer(output.ModeText, false)
		require.NoError(t, printMakeResult(tr.Renderer, cfg, res))

		out := tr.Out.String()
		assert.Contains(t, out, "Creating Post from posts")
		assert.Contains(t, out, "deleted app/Post.php")
		assert.Contains(t, out, "✓ created app/Post.php")
		assert.Contains(t, out, "✓ route added to app/Http/routes.php")
		clitestutil.AssertNoANSI(t, out)
	})

	t.Run("markdown", func(t *testing.T) {
		tr := clitestutil.NewTestRendererMarkdown()
		require.NoError(t, printMakeResult(tr.Renderer, cfg, res))

		out := tr.Out.String()
		assert.Contains(t, out, "## Deleted\n- app/Post.php")
		assert.Contains(t, out, "- **Run ID**: run-1")
		clitestutil.AssertValidMarkdown(t, out)
	})

	t.Run("json", func(t *testing.T) {
		tr := clitestutil.NewTestRendererJSON()
		require.NoError(t, printMakeResult(tr.Renderer, cfg, res))

		var got output.MakeOutput
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		assert.Equal(t, []string{"app/Post.php"}, got.Deleted)
		assert.Equal(t, "app/Http/routes.php", got.RoutesFile)
		assert.Equal(t, "model", got.Files[0].Target)
	})
}

func TestColumnsCommand(t *testing.T) {
	dir := clitestutil.SetupTestProject(t)
	loadProject(t, dir, "json")

	out, _, err := execute(t, NewColumnsCommand(), "posts")
	require.NoError(t, err)

	var res output.ColumnsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "posts", res.Table)
	assert.Equal(t, int64(1), res.RowCount)
	require.Len(t, res.Columns, 4)
	assert.Equal(t, "text", res.Columns[1].Kind)
	assert.Equal(t, "VARCHAR(255)", res.Columns[1].Type)
	assert.False(t, res.Columns[1].Nullable)
	assert.True(t, res.Columns[2].Nullable)

	t.Run("markdown table", func(t *testing.T) {
		loadProject(t, dir, "markdown")
		out, _, err := execute(t, NewColumnsCommand(), "posts")
		require.NoError(t, err)
		assert.Contains(t, out, "# posts (4 columns, 1 rows)")
		assert.Contains(t, out, "| views | number | INTEGER | true |")
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := execute(t, NewColumnsCommand(), "nope")
		assert.Error(t, err)
	})
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "greeting.tpl")
	require.NoError(t, os.WriteFile(tpl, []byte("Hello [[ name ]]!\n[[ foreach: items ]]\n- [[ i ]];\n[[ endforeach ]]\n[[ if: mood == 'happy' ]]\n:)\n[[ endif ]]\n"), 0o600))
	data := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(data, []byte("name: Nobody\nitems: [a, b]\nmood: happy\n"), 0o600))

	t.Run("text", func(t *testing.T) {
		loadProject(t, dir, "text")
		out, _, err := execute(t, NewRenderCommand(), tpl, "--data", data, "--set", "name=World")
		require.NoError(t, err)
		assert.Equal(t, "Hello World!\n- a;\n- b;\n:)\n", out)
	})

	t.Run("json", func(t *testing.T) {
		loadProject(t, dir, "json")
		out, _, err := execute(t, NewRenderCommand(), tpl, "--set", "name=World")
		require.NoError(t, err)

		var res output.RenderOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, tpl, res.Template)
		assert.Equal(t, "Hello World!\n[[ foreach: items ]]\n- [[ i ]];\n[[ endforeach ]]\n", res.Output)
	})

	t.Run("markdown", func(t *testing.T) {
		loadProject(t, dir, "markdown")
		out, _, err := execute(t, NewRenderCommand(), tpl, "--set", "name=World")
		require.NoError(t, err)
		assert.Contains(t, out, "# Rendered: greeting.tpl")
		clitestutil.AssertValidMarkdown(t, out)
	})

	t.Run("diagnostics go to stderr", func(t *testing.T) {
		loadProject(t, dir, "text")
		broken := filepath.Join(dir, "broken.tpl")
		require.NoError(t, os.WriteFile(broken, []byte("[[ if: a == 'b' ]]x"), 0o600))

		out, errOut, err := execute(t, NewRenderCommand(), broken)
		require.NoError(t, err)
		assert.Equal(t, "[[ if: a == 'b' ]]x", out)
		assert.Contains(t, errOut, "unclosed 'if' block")
	})

	t.Run("rows from a data file", func(t *testing.T) {
		loadProject(t, dir, "text")
		rows := filepath.Join(dir, "columns.tpl")
		require.NoError(t, os.WriteFile(rows, []byte("[[ foreach: columns ]]\n[[ if: i.type != 'id' ]]\n'[[ i.name ]]',\n[[ endif ]]\n[[ endforeach ]]\n"), 0o600))
		rowData := filepath.Join(dir, "columns.yaml")
		require.NoError(t, os.WriteFile(rowData, []byte("columns:\n  - {name: id, type: id}\n  - {name: title, type: text}\n  - {name: views, type: number}\n"), 0o600))

		out, _, err := execute(t, NewRenderCommand(), rows, "--data", rowData)
		require.NoError(t, err)
		assert.Equal(t, "'title',\n'views',\n", out)
	})

	t.Run("missing template", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCommand(), filepath.Join(dir, "nope.tpl"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read template")
	})
}

func TestLoadRenderData(t *testing.T) {
	dir := t.TempDir()

	t.Run("rows from yaml", func(t *testing.T) {
		path := filepath.Join(dir, "rows.yaml")
		require.NoError(t, os.WriteFile(path, []byte("columns:\n  - name: id\n    type: id\n"), 0o600))

		data, err := loadRenderData(path, []string{"model_uc=Post", "empty="})
		require.NoError(t, err)
		assert.Equal(t, "Post", data["model_uc"])
		assert.Equal(t, "", data["empty"])
		assert.Equal(t, []any{template.Data{"name": "id", "type": "id"}}, data["columns"])
		assert.Equal(t, "id:id;", template.Render("[[ foreach: columns ]][[ i.name ]]:[[ i.type ]];[[ endforeach ]]", data))
	})

	t.Run("json is accepted", func(t *testing.T) {
		path := filepath.Join(dir, "data.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"name": "x"}`), 0o600))
		data, err := loadRenderData(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "x", data["name"])
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		data, err := loadRenderData(path, []string{"a=b"})
		require.NoError(t, err)
		assert.Equal(t, "b", data["a"])
	})

	errs := []struct {
		name   string
		file   string
		sets   []string
		errMsg string
	}{
		{"missing file", filepath.Join(dir, "missing.yaml"), nil, "failed to read data file"},
		{"bad set", "", []string{"novalue"}, "expected key=value"},
		{"empty key", "", []string{"=x"}, "expected key=value"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadRenderData(tt.file, tt.sets)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	loadProject(t, dir, "json")

	good := filepath.Join(dir, "good.tpl")
	require.NoError(t, os.WriteFile(good, []byte("[[ foreach: columns ]][[ i.name ]][[ endforeach ]]"), 0o600))
	bad := filepath.Join(dir, "bad.tpl")
	require.NoError(t, os.WriteFile(bad, []byte("line\n[[ if: a == 'b' ]]x"), 0o600))

	out, _, err := execute(t, NewCheckCommand(), good, bad)
	require.NoError(t, err)

	var res []output.CheckOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.Equal(t, []string{"columns", "i.name"}, res[0].Keys)
	assert.Empty(t, res[0].Diagnostics)
	require.Len(t, res[1].Diagnostics, 1)
	assert.Equal(t, 2, res[1].Diagnostics[0].Line)
	assert.Equal(t, "unclosed", res[1].Diagnostics[0].Kind)
	assert.Equal(t, "if", res[1].Diagnostics[0].Block)

	_, _, err = execute(t, NewCheckCommand(), bad, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 template diagnostics found")

	t.Run("built-in templates are clean", func(t *testing.T) {
		out, _, err := execute(t, NewCheckCommand(), "--strict")
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Len(t, res, 5)
	})
}

func TestTemplatesCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := loadProject(t, dir, "json")

	out, _, err := execute(t, NewTemplatesCommand())
	require.NoError(t, err)

	var infos []output.TemplateInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 5)
	for _, info := range infos {
		assert.Equal(t, "builtin", info.Source, info.Name)
	}

	_, _, err = execute(t, NewTemplatesCommand(), "--eject")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cfg.TemplatesDir, "view.add.tpl"))

	require.NoError(t, os.WriteFile(filepath.Join(cfg.TemplatesDir, "model.tpl"), []byte("custom"), 0o600))
	_, _, err = execute(t, NewTemplatesCommand(), "--eject")
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(cfg.TemplatesDir, "model.tpl"))
	require.NoError(t, err)
	assert.Equal(t, "custom", string(got), "eject keeps existing files without --force")

	out, _, err = execute(t, NewTemplatesCommand())
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	for _, info := range infos {
		assert.Equal(t, "user", info.Source, info.Name)
	}

	t.Run("eject to another dir with force", func(t *testing.T) {
		other := filepath.Join(dir, "stubs")
		require.NoError(t, os.MkdirAll(other, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(other, "model.tpl"), []byte("old"), 0o600))

		_, _, err := execute(t, NewTemplatesCommand(), "--eject", "--dir", other, "--force")
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(other, "model.tpl"))
		require.NoError(t, err)
		assert.Contains(t, string(got), "class [[ model_uc ]] extends Model")
	})
}
