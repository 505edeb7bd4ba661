package scaffold

import (
	"strings"

	"github.com/leapstack-labs/crudgen/internal/adapter"
)

// ColumnKind is the coarse type templates branch on.
type ColumnKind string

// ColumnKind constants.
const (
	KindID      ColumnKind = "id"
	KindText    ColumnKind = "text"
	KindNumber  ColumnKind = "number"
	KindUnknown ColumnKind = "unknown"
)

// Column describes one table column to the templates.
type Column struct {
	Name string
	Kind ColumnKind
}

// KindOf maps a column to its kind. A column named "id" is always KindID;
// otherwise the database type decides, by substring: character types are
// text and anything mentioning "int" is a number.
func KindOf(name, dbType string) ColumnKind {
	if name == "id" {
		return KindID
	}
	t := strings.ToLower(dbType)
	switch {
	case strings.Contains(t, "varchar"), strings.Contains(t, "character varying"):
		return KindText
	case strings.Contains(t, "int"):
		return KindNumber
	default:
		return KindUnknown
	}
}

// Describe converts table metadata into column descriptors, in ordinal order.
func Describe(meta *adapter.Metadata) []Column {
	cols := make([]Column, len(meta.Columns))
	for i, c := range meta.Columns {
		cols[i] = Column{Name: c.Name, Kind: KindOf(c.Name, c.Type)}
	}
	return cols
}

// row is the template representation of a column.
func (c Column) row() map[string]any {
	return map[string]any{"name": c.Name, "type": string(c.Kind)}
}
