package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/crudgen/internal/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/leapstack-labs/crudgen/internal/adapters/postgres"
	_ "github.com/leapstack-labs/crudgen/internal/adapters/sqlite"
)

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		errSubstr string
	}{
		{"empty type", TargetConfig{}, "target type is required"},
		{"sqlite", TargetConfig{Type: "sqlite"}, ""},
		{"uppercase", TargetConfig{Type: "Postgres"}, ""},
		{"unknown", TargetConfig{Type: "mysql"}, "unknown adapter type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestTargetConfig_AdapterConfig(t *testing.T) {
	file := (&TargetConfig{Type: "SQLite", Database: "db.sqlite"}).AdapterConfig()
	assert.Equal(t, adapter.Config{Type: "sqlite", Path: "db.sqlite", Database: "db.sqlite"}, file)

	server := (&TargetConfig{
		Type: "postgres", Database: "blog", Host: "db", Port: 5433,
		User: "app", Password: "secret", Schema: "public",
		Options: map[string]string{"sslmode": "require"},
	}).AdapterConfig()
	assert.Empty(t, server.Path)
	assert.Equal(t, "app", server.Username)
	assert.Equal(t, 5433, server.Port)
	assert.Equal(t, "require", server.Options["sslmode"])
}

func TestTargetConfig_Clone(t *testing.T) {
	orig := &TargetConfig{Type: "postgres", Options: map[string]string{"a": "1"}}
	c := orig.Clone()
	c.Options["a"] = "2"
	assert.Equal(t, "1", orig.Options["a"])

	var nilTarget *TargetConfig
	assert.Nil(t, nilTarget.Clone())
}

func TestApplyTargetDefaults(t *testing.T) {
	pg := &TargetConfig{Type: "postgres"}
	ApplyTargetDefaults(pg)
	assert.Equal(t, "public", pg.Schema)
	assert.Equal(t, 5432, pg.Port)

	lite := &TargetConfig{Type: "sqlite"}
	ApplyTargetDefaults(lite)
	assert.Equal(t, "main", lite.Schema)
	assert.Zero(t, lite.Port)

	ApplyTargetDefaults(nil)
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()
	for _, target := range Targets {
		assert.NotEmpty(t, layout[target], "target %s has no default destination", target)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("prefix: x_\n"), 0o600))

	assert.Equal(t, root, FindProjectRoot(nested, 10))
	assert.Empty(t, FindProjectRoot(nested, 2), "search depth is bounded")
	assert.Equal(t, filepath.Join(root, ConfigFileNameAlt), FindConfigFile(root))
	assert.Empty(t, FindConfigFile(nested))
}
