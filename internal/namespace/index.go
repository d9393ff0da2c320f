package namespace

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cloudshelf/internal/models"
)

// Children derives the ordered list of direct children of path from the full
// node set: exact path equality (never a prefix match, so deeper levels can
// not leak in), folders before files, names ascending under locale collation.
// The derivation is total and stateless by design; callers must not cache the
// result as authoritative.
func Children(nodes []models.Node, path string) []models.Node {
	children := make([]models.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Path == path {
			children = append(children, n)
		}
	}
	SortChildren(children)
	return children
}

// SortChildren orders siblings in place: folders first, then files, each
// group ascending by collated name.
func SortChildren(nodes []models.Node) {
	c := collate.New(language.English)
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := &nodes[i], &nodes[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return c.CompareString(a.Name, b.Name) < 0
	})
}
