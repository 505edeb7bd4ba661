// Package adapter provides the database introspection contract used to
// describe the table a scaffold is generated for.
//
// Concrete adapters live in internal/adapters subdirectories and register
// themselves in init(); import them with a blank identifier.
package adapter

import (
	"context"
	"database/sql"
)

// Config holds the configuration for connecting to a database.
type Config struct {
	// Type specifies the database type (e.g., "duckdb", "postgres", "sqlite")
	Type string

	// Path is the file path for file-based databases (DuckDB, SQLite).
	// Use ":memory:" for in-memory databases.
	Path string

	Host     string
	Port     int
	Database string
	Username string
	Password string

	// Schema overrides the dialect's default schema for unqualified tables.
	Schema string

	// Options contains additional driver-specific options
	Options map[string]string
}

// Column represents a column in a database table.
type Column struct {
	Name       string
	Type       string // database type as reported by the driver
	Nullable   bool
	PrimaryKey bool
	Position   int // 1-based ordinal position
}

// Metadata holds metadata about a database table.
type Metadata struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// ColumnNames returns the column names in ordinal order.
func (m *Metadata) ColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the table has a column with the given name.
func (m *Metadata) HasColumn(name string) bool {
	for _, c := range m.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Rows wraps sql.Rows to provide a consistent interface across adapters.
type Rows struct {
	*sql.Rows
}

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// GetTableMetadata retrieves the columns of a table in ordinal order.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// FirstRow returns the first row of a table keyed by column name, or
	// nil when the table is empty.
	FirstRow(ctx context.Context, table string) (map[string]any, error)

	// DialectName returns the SQL dialect name for this adapter.
	DialectName() string
}
