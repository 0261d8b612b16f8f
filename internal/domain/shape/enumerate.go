package shape

import (
	"github.com/corey/shapegen/internal/domain/hierarchy"
)

// Cases enumerates every kind combination of the template and materializes
// the valid ones, in odometer order.
func (t *Template) Cases(includeClasses bool) []*hierarchy.Node {
	var out []*hierarchy.Node
	t.Start(includeClasses)
	for {
		if t.Valid() {
			out = append(out, t.Materialize())
		}
		if !t.Next() {
			break
		}
	}
	return out
}

// Combinations returns the number of raw combinations, valid or not.
func (t *Template) Combinations(includeClasses bool) int {
	t.Start(includeClasses)
	total := 1
	for i := range t.nodes {
		total *= len(t.nodes[i].kinds)
	}
	return total
}

// CasesOf parses every shape and enumerates it with and without classes.
// The first malformed shape aborts the whole build.
func CasesOf(shapes ...string) ([]*hierarchy.Node, error) {
	var out []*hierarchy.Node
	for _, s := range shapes {
		t, err := Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, t.Cases(false)...)
		out = append(out, t.Cases(true)...)
	}
	return out, nil
}
