package differ

import (
	"sort"

	"github.com/mcncl/eventdiff/internal/models"
)

// KeyPaths flattens a diff tree into dotted key paths. An Empty child of a
// branch yields the path leading to it, as does a Leaf. Children are visited
// in sorted key order. The root node itself yields nothing unless it is a
// Leaf and prefix is non-empty.
func KeyPaths(node models.DiffNode, prefix string) []string {
	var paths []string
	collect(node, prefix, &paths)
	return paths
}

func collect(node models.DiffNode, prefix string, paths *[]string) {
	switch node.Kind {
	case models.NodeLeaf:
		if prefix != "" {
			*paths = append(*paths, prefix)
		}
	case models.NodeBranch:
		keys := make([]string, 0, len(node.Children))
		for k := range node.Children {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			child := node.Children[k]
			path := join(prefix, k)
			if child.IsEmpty() {
				*paths = append(*paths, path)
				continue
			}
			collect(child, path, paths)
		}
	}
}
