package template

import (
	"regexp"
)

var (
	foreachPattern = regexp.MustCompile(`(?s)^foreach:\s*(.+)$`)
	ifPattern      = regexp.MustCompile(`(?s)^if:\s*(.+?)\s*([!=]=)\s*(.+)$`)
)

type markerKind int

const (
	kindText markerKind = iota
	kindVar
	kindForEachOpen
	kindEndForEach
	kindIfOpen
	kindEndIf
	kindForEachRegion // grouped foreach region, see groupForEach
)

// element is a classified token, or a grouped foreach region.
type element struct {
	tok  Token
	kind markerKind

	key         string // foreach key
	left, right string // if operands
	op          Operator

	shadowedBy BlockKind

	// foreach regions only
	open, close *element
	body        []*element
}

type parser struct {
	file  string
	diags []Diagnostic
}

// Parse parses a template. Parsing never fails; structural problems are
// reported in Template.Diagnostics and degrade to literal markers.
//
// Foreach regions are delimited first, ignoring if markers, and if regions
// are delimited afterwards within each segment, with foreach regions
// treated as opaque. This is the order in which the renderers consume a
// template, so an if block may enclose a whole foreach block and a foreach
// body may contain complete if blocks.
func Parse(input, file string) *Template {
	p := &parser{file: file}
	elems := p.classify(NewLexer(input, file).Tokenize())
	nodes := p.build(p.groupForEach(elems))
	return &Template{Nodes: nodes, File: file, Diagnostics: p.diags}
}

func (p *parser) classify(tokens []Token) []*element {
	elems := make([]*element, 0, len(tokens))
	for _, tok := range tokens {
		switch tok.Type {
		case TokenEOF:
			continue
		case TokenText:
			elems = append(elems, &element{tok: tok, kind: kindText})
			continue
		}

		e := &element{tok: tok, kind: kindVar}
		switch {
		case tok.Value == "endforeach":
			e.kind = kindEndForEach
		case tok.Value == "endif":
			e.kind = kindEndIf
		default:
			if m := foreachPattern.FindStringSubmatch(tok.Value); m != nil {
				e.kind = kindForEachOpen
				e.key = m[1]
			} else if m := ifPattern.FindStringSubmatch(tok.Value); m != nil {
				e.kind = kindIfOpen
				e.left, e.op, e.right = m[1], Operator(m[2]), m[3]
			}
		}
		elems = append(elems, e)
	}
	return elems
}

// groupForEach folds each foreach open marker and the nearest following
// endforeach into a region. Further foreach markers inside the region are
// shadowed, not nested.
func (p *parser) groupForEach(elems []*element) []*element {
	out := make([]*element, 0, len(elems))
	for i := 0; i < len(elems); i++ {
		e := elems[i]
		if e.kind != kindForEachOpen {
			out = append(out, e)
			continue
		}

		end := indexOfKind(elems, i+1, kindEndForEach)
		if end < 0 {
			p.report(e, DiagUnclosedBlock, BlockForEach)
			out = append(out, e)
			continue
		}

		body := elems[i+1 : end]
		for _, inner := range body {
			if inner.kind == kindForEachOpen {
				inner.shadowedBy = BlockForEach
				p.report(inner, DiagNestedBlock, BlockForEach)
			}
		}
		out = append(out, &element{
			tok:   e.tok,
			kind:  kindForEachRegion,
			key:   e.key,
			open:  e,
			close: elems[end],
			body:  body,
		})
		i = end
	}
	return out
}

// build groups if regions within one segment and converts the result into
// nodes.
func (p *parser) build(elems []*element) []Node {
	var nodes []Node
	for i := 0; i < len(elems); i++ {
		e := elems[i]
		switch e.kind {
		case kindText:
			nodes = append(nodes, &TextNode{nodeBase: nodeBase{pos: e.tok.Pos}, Text: e.tok.Raw})

		case kindForEachRegion:
			nodes = append(nodes, &ForEachNode{
				nodeBase: nodeBase{pos: e.tok.Pos},
				Key:      e.key,
				Open:     p.varNode(e.open),
				Close:    p.varNode(e.close),
				Body:     p.build(e.body),
			})

		case kindIfOpen:
			if e.shadowedBy != BlockNone {
				nodes = append(nodes, p.varNode(e))
				continue
			}
			end := indexOfKind(elems, i+1, kindEndIf)
			if end < 0 {
				p.report(e, DiagUnclosedBlock, BlockIf)
				nodes = append(nodes, p.varNode(e))
				continue
			}
			body := elems[i+1 : end]
			for _, inner := range body {
				if inner.kind == kindIfOpen {
					inner.shadowedBy = BlockIf
					p.report(inner, DiagNestedBlock, BlockIf)
				}
			}
			nodes = append(nodes, &IfNode{
				nodeBase: nodeBase{pos: e.tok.Pos},
				Left:     e.left,
				Op:       e.op,
				Right:    e.right,
				Open:     p.varNode(e),
				Close:    p.varNode(elems[end]),
				Body:     p.build(body),
			})
			i = end

		case kindEndForEach:
			p.report(e, DiagStrayClose, BlockForEach)
			nodes = append(nodes, p.varNode(e))

		case kindEndIf:
			p.report(e, DiagStrayClose, BlockIf)
			nodes = append(nodes, p.varNode(e))

		default:
			nodes = append(nodes, p.varNode(e))
		}
	}
	return nodes
}

func (p *parser) varNode(e *element) *VarNode {
	return &VarNode{
		nodeBase:   nodeBase{pos: e.tok.Pos},
		Key:        e.tok.Value,
		Raw:        e.tok.Raw,
		ShadowedBy: e.shadowedBy,
	}
}

func (p *parser) report(e *element, kind DiagnosticKind, block BlockKind) {
	p.diags = append(p.diags, newDiagnostic(e.tok.Pos, kind, block))
}

func indexOfKind(elems []*element, from int, kind markerKind) int {
	for j := from; j < len(elems); j++ {
		if elems[j].kind == kind {
			return j
		}
	}
	return -1
}
