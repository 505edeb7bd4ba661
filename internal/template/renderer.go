package template

import "strings"

// Pass selects renderers. A full render runs all three; a subset leaves
// the markers of the disabled renderers as written.
type Pass uint8

// Pass constants.
const (
	PassIterate Pass = 1 << iota
	PassConditional
	PassVariable

	AllPasses = PassIterate | PassConditional | PassVariable
)

// Render parses src and renders it against data.
func Render(src string, data Data) string {
	return Parse(src, "").Execute(data)
}

// RenderString is Render with a file name used in diagnostics.
func RenderString(src, file string, data Data) string {
	return Parse(src, file).Execute(data)
}

// RenderVariables runs only the variable renderer over src: every marker
// is treated as a [[ key ]] reference.
func RenderVariables(src string, data Data) string {
	return Parse(src, "").ExecutePasses(data, PassVariable)
}

// Execute renders the template against data with all passes.
func (t *Template) Execute(data Data) string {
	return t.ExecutePasses(data, AllPasses)
}

// ExecutePasses renders the template running only the given passes.
func (t *Template) ExecutePasses(data Data, passes Pass) string {
	var sb strings.Builder
	s := &scope{data: data, passes: passes}
	s.render(&sb, t.Nodes)
	return sb.String()
}

// scope is the evaluation state for one level of the tree.
type scope struct {
	data   Data
	passes Pass

	inIf  bool // rendering the body of a satisfied if block
	inRow bool // rendering one element of a foreach block
}

func (s *scope) render(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *TextNode:
			sb.WriteString(n.Text)
		case *VarNode:
			s.renderVar(sb, n)
		case *IfNode:
			s.renderIf(sb, n)
		case *ForEachNode:
			s.renderForEach(sb, n)
		}
	}
}

func (s *scope) renderVar(sb *strings.Builder, n *VarNode) {
	switch {
	case n.ShadowedBy == BlockIf && s.inIf, n.ShadowedBy == BlockForEach && s.inRow:
		return
	case s.passes&PassVariable == 0:
		sb.WriteString(n.Raw)
		return
	}

	if text, ok := s.data.text(n.Key); ok {
		// A substituted marker takes its trailing line break with it.
		sb.WriteString(text)
		return
	}
	sb.WriteString(n.Raw)
}

func (s *scope) renderIf(sb *strings.Builder, n *IfNode) {
	if s.passes&PassConditional == 0 {
		s.renderVar(sb, n.Open)
		s.render(sb, n.Body)
		s.renderVar(sb, n.Close)
		return
	}
	if !n.Holds(s.data) {
		return
	}
	body := *s
	body.inIf = true
	body.render(sb, n.Body)
}

// Holds evaluates the block condition against data.
func (n *IfNode) Holds(data Data) bool {
	eq := Equal(Resolve(n.Left, data), Resolve(n.Right, data))
	if n.Op == OpNotEqual {
		return !eq
	}
	return eq
}

func (s *scope) renderForEach(sb *strings.Builder, n *ForEachNode) {
	later := s.passes &^ PassIterate

	rows, ok := s.data.list(n.Key)
	if s.passes&PassIterate == 0 || !ok {
		// Fail open: the region stays as written and is left to the
		// remaining passes.
		rest := *s
		rest.passes = later
		rest.renderVar(sb, n.Open)
		rest.render(sb, n.Body)
		rest.renderVar(sb, n.Close)
		return
	}

	var out strings.Builder
	for _, row := range rows {
		// Conditionals run before variables inside each row.
		rs := &scope{
			data:   s.data.withElement(row),
			passes: PassConditional | PassVariable,
			inRow:  true,
		}
		rs.render(&out, n.Body)
	}

	text := out.String()
	if later != 0 {
		// Rendered rows go through the remaining passes once more, against
		// the outer context. Text that still contains markers after the row
		// pass (including substituted values) is resolved a second time.
		text = Parse(text, n.pos.File).ExecutePasses(s.data, later)
	}
	sb.WriteString(text)
}
