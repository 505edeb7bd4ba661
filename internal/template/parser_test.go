package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Text(t *testing.T) {
	tmpl := Parse("no markers here", "test.tpl")
	require.Len(t, tmpl.Nodes, 1)
	text, ok := tmpl.Nodes[0].(*TextNode)
	require.True(t, ok, "expected TextNode, got %T", tmpl.Nodes[0])
	assert.Equal(t, "no markers here", text.Text)
	assert.Empty(t, tmpl.Diagnostics)
	assert.Equal(t, "test.tpl", tmpl.File)
}

func TestParse_Variable(t *testing.T) {
	tmpl := Parse("Hello [[ name ]]\n", "")
	require.Len(t, tmpl.Nodes, 2)

	v, ok := tmpl.Nodes[1].(*VarNode)
	require.True(t, ok, "expected VarNode, got %T", tmpl.Nodes[1])
	assert.Equal(t, "name", v.Key)
	assert.Equal(t, "[[ name ]]\n", v.Raw)
	assert.Equal(t, BlockNone, v.ShadowedBy)
}

func TestParse_ForEach(t *testing.T) {
	src := "[[ foreach: rows ]]\n[[ i.name ]]\n[[ endforeach ]]\n"
	tmpl := Parse(src, "")
	require.Len(t, tmpl.Nodes, 1)

	fe, ok := tmpl.Nodes[0].(*ForEachNode)
	require.True(t, ok, "expected ForEachNode, got %T", tmpl.Nodes[0])
	assert.Equal(t, "rows", fe.Key)
	assert.Equal(t, "[[ foreach: rows ]]\n", fe.Open.Raw)
	assert.Equal(t, "[[ endforeach ]]\n", fe.Close.Raw)

	require.Len(t, fe.Body, 1)
	v, ok := fe.Body[0].(*VarNode)
	require.True(t, ok)
	assert.Equal(t, "i.name", v.Key)
	assert.Empty(t, tmpl.Diagnostics)
}

func TestParse_IfHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		left  string
		op    Operator
		right string
	}{
		{"equal literal", "[[ if: a == 'x' ]]y[[ endif ]]", "a", OpEqual, "'x'"},
		{"not equal", "[[ if: i.type != 'id' ]]y[[ endif ]]", "i.type", OpNotEqual, "'id'"},
		{"no spaces", "[[if:a!='b']]y[[endif]]", "a", OpNotEqual, "'b'"},
		{"two keys", "[[ if: left == right ]]y[[ endif ]]", "left", OpEqual, "right"},
		{"literal with spaces", "[[ if: title == 'a b' ]]y[[ endif ]]", "title", OpEqual, "'a b'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := Parse(tt.input, "")
			require.Len(t, tmpl.Nodes, 1)
			n, ok := tmpl.Nodes[0].(*IfNode)
			require.True(t, ok, "expected IfNode, got %T", tmpl.Nodes[0])
			assert.Equal(t, tt.left, n.Left)
			assert.Equal(t, tt.op, n.Op)
			assert.Equal(t, tt.right, n.Right)
			require.Len(t, n.Body, 1)
		})
	}
}

func TestParse_IfInsideForEach(t *testing.T) {
	tmpl := Parse("[[foreach: cols]][[if: i.type == 'id']]ID[[endif]][[endforeach]]", "")
	require.Len(t, tmpl.Nodes, 1)

	fe, ok := tmpl.Nodes[0].(*ForEachNode)
	require.True(t, ok)
	require.Len(t, fe.Body, 1)
	_, ok = fe.Body[0].(*IfNode)
	assert.True(t, ok, "expected IfNode in foreach body, got %T", fe.Body[0])
	assert.Empty(t, tmpl.Diagnostics)
}

func TestParse_ForEachInsideIf(t *testing.T) {
	// The inner if belongs to the foreach region, which is opaque to the
	// outer if, so the outer if is closed by the last endif.
	src := "[[if: a == 'x']][[foreach: rows]][[if: i == 'b']]B[[endif]][[endforeach]][[endif]]"
	tmpl := Parse(src, "")
	require.Len(t, tmpl.Nodes, 1)

	outer, ok := tmpl.Nodes[0].(*IfNode)
	require.True(t, ok)
	require.Len(t, outer.Body, 1)

	fe, ok := outer.Body[0].(*ForEachNode)
	require.True(t, ok)
	require.Len(t, fe.Body, 1)
	_, ok = fe.Body[0].(*IfNode)
	assert.True(t, ok)
	assert.Empty(t, tmpl.Diagnostics)
}

func TestParse_NestedForEachIsShadowed(t *testing.T) {
	tmpl := Parse("[[foreach: a]]x[[foreach: b]]y[[endforeach]]z[[endforeach]]", "t.tpl")
	require.Len(t, tmpl.Nodes, 3)

	fe, ok := tmpl.Nodes[0].(*ForEachNode)
	require.True(t, ok)
	assert.Equal(t, "a", fe.Key)
	require.Len(t, fe.Body, 3)

	inner, ok := fe.Body[1].(*VarNode)
	require.True(t, ok)
	assert.Equal(t, "foreach: b", inner.Key)
	assert.Equal(t, BlockForEach, inner.ShadowedBy)

	stray, ok := tmpl.Nodes[2].(*VarNode)
	require.True(t, ok)
	assert.Equal(t, "endforeach", stray.Key)

	require.Len(t, tmpl.Diagnostics, 2)
	assert.Equal(t, DiagNestedBlock, tmpl.Diagnostics[0].Kind)
	assert.Equal(t, DiagStrayClose, tmpl.Diagnostics[1].Kind)
	assert.Equal(t, BlockForEach, tmpl.Diagnostics[1].Block)
	assert.Contains(t, tmpl.Diagnostics[0].Error(), "t.tpl:1:16:")
}

func TestParse_NestedIfIsShadowed(t *testing.T) {
	tmpl := Parse("[[if: a == 'x']]A[[if: b == 'y']]B[[endif]]C[[endif]]", "")
	require.Len(t, tmpl.Nodes, 3)

	n, ok := tmpl.Nodes[0].(*IfNode)
	require.True(t, ok)
	require.Len(t, n.Body, 3)
	inner, ok := n.Body[1].(*VarNode)
	require.True(t, ok)
	assert.Equal(t, BlockIf, inner.ShadowedBy)

	require.Len(t, tmpl.Diagnostics, 2)
	assert.Equal(t, DiagNestedBlock, tmpl.Diagnostics[0].Kind)
	assert.Equal(t, DiagStrayClose, tmpl.Diagnostics[1].Kind)
}

func TestParse_Degraded(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  DiagnosticKind
		block BlockKind
	}{
		{"unclosed foreach", "[[ foreach: rows ]]body", DiagUnclosedBlock, BlockForEach},
		{"unclosed if", "[[ if: a == b ]]body", DiagUnclosedBlock, BlockIf},
		{"stray endforeach", "body[[ endforeach ]]", DiagStrayClose, BlockForEach},
		{"stray endif", "body[[ endif ]]", DiagStrayClose, BlockIf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := Parse(tt.input, "")
			require.Len(t, tmpl.Diagnostics, 1)
			assert.Equal(t, tt.kind, tmpl.Diagnostics[0].Kind)
			assert.Equal(t, tt.block, tmpl.Diagnostics[0].Block)

			for _, n := range tmpl.Nodes {
				switch n.(type) {
				case *TextNode, *VarNode:
				default:
					t.Errorf("unexpected block node %T", n)
				}
			}
			// Degraded markers are left in place.
			assert.Equal(t, tt.input, Render(tt.input, Data{}))
		})
	}
}

func TestTemplate_Keys(t *testing.T) {
	src := `[[ model ]]
[[ foreach: columns ]]
[[ if: i.type != 'id' ]][[ i.name ]][[ endif ]]
[[ endforeach ]]
[[ if: model == other ]]x[[ endif ]]`

	keys := Parse(src, "").Keys()
	assert.Equal(t, []string{"columns", "i.name", "i.type", "model", "other"}, keys)
}

func TestIsElementKey(t *testing.T) {
	assert.True(t, IsElementKey("i"))
	assert.True(t, IsElementKey("i.name"))
	assert.False(t, IsElementKey("id"))
	assert.False(t, IsElementKey("items"))
}
