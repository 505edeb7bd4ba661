package scaffold

import (
	"strconv"

	"github.com/leapstack-labs/crudgen/internal/template"
)

// BuildData assembles the template context for a scaffold.
func BuildData(n Names, prefix string, cols []Column) template.Data {
	rows := make([]any, len(cols))
	for i, c := range cols {
		rows[i] = c.row()
	}

	firstNonID := ""
	if len(cols) > 1 {
		firstNonID = cols[1].Name
	}

	return template.Data{
		"model_uc":           n.Model,
		"model_singular":     n.Singular,
		"model_plural":       n.Plural,
		"tablename":          n.TableName,
		"prefix":             prefix,
		"columns":            rows,
		"first_column_nonid": firstNonID,
		"num_columns":        len(cols),
		"custom_table":       n.CustomTable,
		"has_timestamps":     strconv.FormatBool(hasTimestamps(cols)),
	}
}

func hasTimestamps(cols []Column) bool {
	var created, updated bool
	for _, c := range cols {
		switch c.Name {
		case "created_at":
			created = true
		case "updated_at":
			updated = true
		}
	}
	return created && updated
}
