// Package shape describes hierarchy shapes independent of kinds, parses the
// compact shape language, and enumerates every kind assignment of a shape
// into concrete hierarchy.Node graphs.
package shape

import (
	"github.com/corey/shapegen/internal/domain/hierarchy"
)

// Kind choices per template node.
var (
	leafKinds      = []hierarchy.Kind{hierarchy.InterfaceDefault, hierarchy.InterfaceAbstract}
	interfaceKinds = []hierarchy.Kind{hierarchy.InterfaceVacuous, hierarchy.InterfaceDefault, hierarchy.InterfaceAbstract}
	classKinds     = []hierarchy.Kind{hierarchy.ClassNone, hierarchy.InterfaceVacuous, hierarchy.InterfaceDefault, hierarchy.InterfaceAbstract}
)

// Template is a shape DAG stored as an arena. Each distinct letter of the
// shape owns exactly one node; a letter used twice is one node referenced by
// index from two parents, and takes one kind per combination.
//
// Index 0 is the root and the least significant odometer digit.
type Template struct {
	shape  string
	nodes  []tnode
	labels map[byte]int
}

type tnode struct {
	label      byte
	canBeClass bool  // uppercase letter
	children   []int // ordered supertypes, by arena index

	kinds   []hierarchy.Kind // legal choices for the current pass
	current int
}

func newTemplate(shape string) *Template {
	return &Template{shape: shape, labels: make(map[byte]int)}
}

func (t *Template) add(label byte) int {
	t.nodes = append(t.nodes, tnode{
		label:      label,
		canBeClass: label >= 'A' && label <= 'Z',
	})
	idx := len(t.nodes) - 1
	t.labels[label] = idx
	return idx
}

// Shape returns the source text the template was parsed from.
func (t *Template) Shape() string { return t.shape }

// Len returns the number of distinct template nodes.
func (t *Template) Len() int { return len(t.nodes) }

// Labels returns the distinct letters in arena order.
func (t *Template) Labels() []string {
	out := make([]string, len(t.nodes))
	for i, n := range t.nodes {
		out[i] = string(n.label)
	}
	return out
}

// Children returns the child letters of label, or nil for an unknown label.
func (t *Template) Children(label string) []string {
	n := t.lookup(label)
	if n == nil {
		return nil
	}
	out := make([]string, len(n.children))
	for i, c := range n.children {
		out[i] = string(t.nodes[c].label)
	}
	return out
}

// CanBeClass reports whether label may be materialized as a class.
func (t *Template) CanBeClass(label string) bool {
	n := t.lookup(label)
	return n != nil && n.canBeClass
}

// Choices returns how many kinds label may take in the current pass.
// Zero before Start.
func (t *Template) Choices(label string) int {
	n := t.lookup(label)
	if n == nil {
		return 0
	}
	return len(n.kinds)
}

// Selection returns the kind currently chosen for every letter.
func (t *Template) Selection() map[string]hierarchy.Kind {
	out := make(map[string]hierarchy.Kind, len(t.nodes))
	for i := range t.nodes {
		out[string(t.nodes[i].label)] = t.nodes[i].kind()
	}
	return out
}

func (t *Template) lookup(label string) *tnode {
	if len(label) != 1 {
		return nil
	}
	idx, ok := t.labels[label[0]]
	if !ok {
		return nil
	}
	return &t.nodes[idx]
}

func (n *tnode) kind() hierarchy.Kind { return n.kinds[n.current] }

// Start resets the odometer and computes each node's legal kinds. Leaves
// choose between default and abstract interfaces; inner nodes may also be
// vacuous interfaces, and class-none when classes are enabled and the letter
// is uppercase.
func (t *Template) Start(includeClasses bool) {
	for i := range t.nodes {
		n := &t.nodes[i]
		switch {
		case len(n.children) == 0:
			n.kinds = leafKinds
		case includeClasses && n.canBeClass:
			n.kinds = classKinds
		default:
			n.kinds = interfaceKinds
		}
		n.current = 0
	}
}

// Next advances the odometer by one. It returns false once the last digit
// wraps, which leaves every digit back at its first choice.
func (t *Template) Next() bool {
	for i := range t.nodes {
		n := &t.nodes[i]
		n.current++
		if n.current < len(n.kinds) {
			return true
		}
		n.current = 0
	}
	return false
}

// Valid reports whether the current combination describes a real hierarchy:
// interfaces never extend classes, and a class child may only appear as the
// first supertype of a class.
func (t *Template) Valid() bool { return t.valid(0) }

func (t *Template) valid(i int) bool {
	n := &t.nodes[i]
	for pos, c := range n.children {
		if !t.valid(c) {
			return false
		}
		if t.nodes[c].kind().IsClass() && (!n.kind().IsClass() || pos > 0) {
			return false
		}
	}
	return true
}

// Materialize builds a fresh Node graph for the current combination. Every
// occurrence of a shared letter becomes its own Node carrying the same kind.
func (t *Template) Materialize() *hierarchy.Node { return t.materialize(0) }

func (t *Template) materialize(i int) *hierarchy.Node {
	n := &t.nodes[i]
	k := n.kind()
	children := n.children

	var super *hierarchy.Node
	if k.IsClass() && len(children) > 0 && t.nodes[children[0]].kind().IsClass() {
		super = t.materialize(children[0])
		children = children[1:]
	}
	ifaces := make([]*hierarchy.Node, 0, len(children))
	for _, c := range children {
		ifaces = append(ifaces, t.materialize(c))
	}
	return hierarchy.NewNode(k, super, ifaces...)
}
