package scaffold

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var namePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Names holds every spelling of the scaffolded entity.
type Names struct {
	Singular string // lowercased input name
	Plural   string
	Model    string // class name: the name with its first letter upper cased

	// TableName is the "tablename" template value: the singular form of the
	// name when singular tables are requested, else the custom table name,
	// else the name.
	TableName string

	// CustomTable is the table the model must declare explicitly, or "".
	CustomTable string
}

// NewNames derives the names for name. customTable may be empty.
func NewNames(name, customTable string, singular bool) (Names, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if !namePattern.MatchString(lower) {
		return Names{}, fmt.Errorf("invalid name %q: use letters, digits, and underscores", name)
	}
	customTable = strings.TrimSpace(customTable)

	n := Names{
		Singular: lower,
		Plural:   inflection.Plural(lower),
		Model:    cases.Title(language.Und, cases.NoLower).String(lower),
	}

	switch {
	case singular:
		n.TableName = inflection.Singular(lower)
	case customTable != "":
		n.TableName = customTable
	default:
		n.TableName = lower
	}

	switch {
	case customTable != "":
		n.CustomTable = customTable
	case singular:
		n.CustomTable = inflection.Singular(lower)
	}
	return n, nil
}

// Table returns the table that holds the entity, without prefix.
func (n Names) Table() string {
	if n.CustomTable != "" {
		return n.CustomTable
	}
	return n.Singular
}
