package template

import "fmt"

// DiagnosticKind classifies a structural problem found while parsing.
type DiagnosticKind int

// DiagnosticKind constants.
const (
	DiagUnclosedBlock DiagnosticKind = iota // open marker without its close marker
	DiagStrayClose                          // close marker without an open marker
	DiagNestedBlock                         // open marker swallowed by a block of the same kind
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagUnclosedBlock:
		return "unclosed"
	case DiagStrayClose:
		return "stray"
	case DiagNestedBlock:
		return "nested"
	default:
		return "unknown"
	}
}

// Diagnostic describes template structure that renders in a degraded way.
// Diagnostics never stop rendering; the affected markers stay in the
// output as written.
type Diagnostic struct {
	Kind  DiagnosticKind
	Block BlockKind
	pos   Position
	msg   string
}

// Position returns where the offending marker starts.
func (d Diagnostic) Position() Position { return d.pos }

func (d Diagnostic) Error() string {
	if d.pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", d.pos.File, d.pos.Line, d.pos.Column, d.msg)
	}
	return fmt.Sprintf("%d:%d: %s", d.pos.Line, d.pos.Column, d.msg)
}

func newDiagnostic(pos Position, kind DiagnosticKind, block BlockKind) Diagnostic {
	var msg string
	switch {
	case kind == DiagUnclosedBlock && block == BlockForEach:
		msg = "unclosed 'foreach' block (missing 'endforeach'); marker left as text"
	case kind == DiagUnclosedBlock && block == BlockIf:
		msg = "unclosed 'if' block (missing 'endif'); marker left as text"
	case kind == DiagStrayClose && block == BlockForEach:
		msg = "'endforeach' without matching 'foreach'; marker left as text"
	case kind == DiagStrayClose && block == BlockIf:
		msg = "'endif' without matching 'if'; marker left as text"
	case kind == DiagNestedBlock && block == BlockForEach:
		msg = "nested 'foreach' is not supported; the first 'endforeach' closes the outer block"
	case kind == DiagNestedBlock && block == BlockIf:
		msg = "nested 'if' is not supported; the first 'endif' closes the outer block"
	default:
		msg = fmt.Sprintf("%s %s block", kind, block)
	}
	return Diagnostic{Kind: kind, Block: block, pos: pos, msg: msg}
}
