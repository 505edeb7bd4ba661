package output

// FileOutput describes one generated file.
type FileOutput struct {
	Target      string   `json:"target"`
	Path        string   `json:"path"`
	Bytes       int      `json:"bytes"`
	Diagnostics []string `json:"diagnostics,omitempty"`
}

// MakeOutput is the JSON result of the make command.
type MakeOutput struct {
	RunID      string         `json:"run_id"`
	Model      string         `json:"model"`
	Table      string         `json:"table"`
	Columns    []ColumnOutput `json:"columns"`
	Files      []FileOutput   `json:"files"`
	Deleted    []string       `json:"deleted,omitempty"`
	RoutesFile string         `json:"routes_file,omitempty"`
	RouteAdded bool           `json:"route_added"`
}

// ColumnOutput describes one column.
type ColumnOutput struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Type     string `json:"db_type,omitempty"`
	Nullable bool   `json:"nullable"`
}

// ColumnsOutput is the JSON result of the columns command.
type ColumnsOutput struct {
	Table    string         `json:"table"`
	Schema   string         `json:"schema,omitempty"`
	RowCount int64          `json:"row_count"`
	Columns  []ColumnOutput `json:"columns"`
}

// RenderOutput is the JSON result of the render command.
type RenderOutput struct {
	Template string `json:"template"`
	Output   string `json:"output"`
}

// DiagnosticOutput describes one template diagnostic.
type DiagnosticOutput struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Kind    string `json:"kind"`
	Block   string `json:"block"`
	Message string `json:"message"`
}

// CheckOutput is the JSON result of the check command.
type CheckOutput struct {
	File        string             `json:"file"`
	Keys        []string           `json:"keys"`
	Diagnostics []DiagnosticOutput `json:"diagnostics"`
}

// TemplateInfo describes one available template.
type TemplateInfo struct {
	Name   string `json:"name"`
	Source string `json:"source"` // "user" or "builtin"
}
