// Package template implements the scaffolding template language.
//
// A template is literal text interleaved with [[ ... ]] markers:
//
//	[[ key ]]                          variable
//	[[ foreach: key ]] ... [[ endforeach ]]   iteration over a list
//	[[ if: A == B ]] ... [[ endif ]]          conditional (== or !=)
//
// Each marker may be followed by a single line break, which belongs to the
// marker. Templates are parsed once into a small tree and evaluated against
// a Data context. Rendering never fails: anything that cannot be resolved
// is left in the output as written.
package template

// Position tracks source location for diagnostics.
type Position struct {
	File   string
	Line   int
	Column int
}

// Node is the interface for all template AST nodes.
type Node interface {
	Pos() Position
	node() // marker method to restrict implementation
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// TextNode represents literal text (passed through unchanged).
type TextNode struct {
	nodeBase
	Text string
}

// BlockKind identifies a block-forming marker.
type BlockKind int

// BlockKind constants.
const (
	BlockNone BlockKind = iota
	BlockForEach
	BlockIf
)

func (k BlockKind) String() string {
	switch k {
	case BlockForEach:
		return "foreach"
	case BlockIf:
		return "if"
	default:
		return "none"
	}
}

// VarNode represents a [[ key ]] reference. Every marker that does not take
// part in a block is a VarNode keyed by its trimmed content, so stray
// "[[ endif ]]" or unmatched "[[ foreach: x ]]" markers resolve like any
// other key and normally stay visible in the output.
type VarNode struct {
	nodeBase
	Key string
	Raw string // source text, including a consumed trailing line break

	// ShadowedBy is set on an opening marker swallowed by an enclosing
	// block of the same kind. The enclosing block drops it when it renders
	// its body.
	ShadowedBy BlockKind
}

// ForEachNode represents [[ foreach: key ]] body [[ endforeach ]].
// The body never contains another ForEachNode: the first endforeach closes
// the region.
type ForEachNode struct {
	nodeBase
	Key   string
	Open  *VarNode
	Close *VarNode
	Body  []Node
}

// Operator is the comparison of an if block.
type Operator string

// Operator constants.
const (
	OpEqual    Operator = "=="
	OpNotEqual Operator = "!="
)

// IfNode represents [[ if: Left Op Right ]] body [[ endif ]]. There is no
// else branch.
type IfNode struct {
	nodeBase
	Left  string
	Op    Operator
	Right string
	Open  *VarNode
	Close *VarNode
	Body  []Node
}

// Template represents a complete parsed template.
type Template struct {
	Nodes       []Node
	File        string // Source file path
	Diagnostics []Diagnostic
}
