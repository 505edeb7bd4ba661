package template

import (
	"sort"
	"strings"
)

// Walk calls fn for each node in depth-first order. Block open and close
// markers are not visited separately.
func Walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		switch n := n.(type) {
		case *IfNode:
			Walk(n.Body, fn)
		case *ForEachNode:
			Walk(n.Body, fn)
		}
	}
}

// Keys returns the context keys the template refers to, sorted. Element
// keys ("i" and "i.<field>") are included; quoted if operands are not.
func (t *Template) Keys() []string {
	seen := make(map[string]struct{})
	add := func(k string) {
		if k != "" && !strings.Contains(k, "'") {
			seen[k] = struct{}{}
		}
	}
	Walk(t.Nodes, func(n Node) {
		switch n := n.(type) {
		case *VarNode:
			if n.ShadowedBy == BlockNone {
				add(n.Key)
			}
		case *IfNode:
			add(n.Left)
			add(n.Right)
		case *ForEachNode:
			add(n.Key)
		}
	})

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsElementKey reports whether key names a foreach element binding.
func IsElementKey(key string) bool {
	return key == "i" || strings.HasPrefix(key, "i.")
}
