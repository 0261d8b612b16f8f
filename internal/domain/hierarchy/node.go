package hierarchy

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// pass identifies one of the rule groups evaluated lazily on a node.
type pass int

const (
	passProvenance pass = iota
	passMarker
	passResolution
	passDefender
	passChecking
	passCount
)

func (p pass) String() string {
	switch p {
	case passProvenance:
		return "provenance"
	case passMarker:
		return "marker"
	case passResolution:
		return "resolution"
	case passDefender:
		return "defender"
	case passChecking:
		return "checking"
	default:
		return "unknown"
	}
}

// passState tracks evaluation of one pass on one node.
type passState uint8

const (
	unevaluated passState = iota
	evaluating
	evaluated
)

// Node is one class or interface in a hierarchy.
//
// Derived attributes are computed on first read by the node's rule table and
// cached forever. A node belongs to exactly one Hierarchy, which names it
// once. Two nodes with the same name are the same entity.
type Node struct {
	kind       Kind
	superclass *Node
	supertypes []*Node // superclass first when present, then interfaces
	rules      *RuleTable
	name       string
	state      [passCount]passState

	provenance   []*Node
	hasClassDecl bool
	concrete     bool
	hasDefault   bool
	resolved     *Node
	defender     *Node
	ok           bool
}

// NewNode builds a node of the given kind. superclass may be nil and must be a
// class; every interface must be an interface node. Interface nodes never have
// a superclass. Violations are programming errors and panic.
func NewNode(kind Kind, superclass *Node, interfaces ...*Node) *Node {
	if !kind.IsInterface() && !kind.IsClass() {
		panic(errors.AssertionFailedf("unknown kind %d", int(kind)))
	}
	if superclass != nil {
		if kind.IsInterface() {
			panic(errors.AssertionFailedf("%s node cannot have a superclass", kind))
		}
		if !superclass.kind.IsClass() {
			panic(errors.AssertionFailedf("superclass must be a class, got %s", superclass.kind))
		}
	}
	n := &Node{kind: kind, superclass: superclass}
	if superclass != nil {
		n.supertypes = append(n.supertypes, superclass)
	}
	for _, t := range interfaces {
		if t == nil {
			panic(errors.AssertionFailedf("nil interface supertype"))
		}
		if !t.kind.IsInterface() {
			panic(errors.AssertionFailedf("%s node cannot implement %s node", kind, t.kind))
		}
		n.supertypes = append(n.supertypes, t)
	}
	return n
}

// Kind returns the node's kind.
func (n *Node) Kind() Kind { return n.kind }

// Superclass returns the superclass, or nil.
func (n *Node) Superclass() *Node { return n.superclass }

// Supertypes returns the ordered supertypes. The slice must not be modified.
func (n *Node) Supertypes() []*Node { return n.supertypes }

// Interfaces returns the supertypes that are interfaces.
func (n *Node) Interfaces() []*Node {
	if n.superclass != nil {
		return n.supertypes[1:]
	}
	return n.supertypes
}

// IsInterface reports whether the node is an interface.
func (n *Node) IsInterface() bool { return n.kind.IsInterface() }

// IsClass reports whether the node is a class.
func (n *Node) IsClass() bool { return n.kind.IsClass() }

// Named reports whether the naming pass has run for this node.
func (n *Node) Named() bool { return n.name != "" }

// ID returns the node's display name, which doubles as its identity.
// Reading it before the owning Hierarchy named the node panics.
func (n *Node) ID() string {
	if n.name == "" {
		panic(errors.AssertionFailedf("identity of %s node read before naming", n.kind))
	}
	return n.name
}

// String returns the display name, or a placeholder for unnamed nodes.
// Only for diagnostics; use ID for identity.
func (n *Node) String() string {
	if n.name == "" {
		return "<unnamed " + n.kind.String() + ">"
	}
	return n.name
}

// Equal compares two named nodes by identity.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.ID() == o.ID()
}

// IsSubtypeOf reports whether o is a proper, transitive supertype of n,
// comparing by id. Both nodes must be named.
func (n *Node) IsSubtypeOf(o *Node) bool {
	for _, s := range n.supertypes {
		if s.Equal(o) || s.IsSubtypeOf(o) {
			return true
		}
	}
	return false
}

// Provenance returns the declarations this node considers as candidate
// sources of the method, in first-seen order.
func (n *Node) Provenance() []*Node {
	n.eval(passProvenance)
	return n.provenance
}

// HasClassDeclaration reports whether the node or a superclass declares the
// method at class level.
func (n *Node) HasClassDeclaration() bool {
	n.eval(passProvenance)
	return n.hasClassDecl
}

// IsConcrete reports whether the node itself is a concrete class declaration.
func (n *Node) IsConcrete() bool {
	n.eval(passMarker)
	return n.concrete
}

// HasDefault reports whether the node itself is a default-bearing declaration.
func (n *Node) HasDefault() bool {
	n.eval(passMarker)
	return n.hasDefault
}

// Resolved returns the declaration instances of this node would use, or nil
// when resolution is ambiguous, abstract, or the node is an interface.
func (n *Node) Resolved() *Node {
	n.eval(passResolution)
	return n.resolved
}

// DefenderSource returns the declaration a synthetic forwarding method on this
// node must route to, or nil when none is needed.
func (n *Node) DefenderSource() *Node {
	n.eval(passDefender)
	return n.defender
}

// NeedsDefender reports whether a forwarding method must be synthesized.
func (n *Node) NeedsDefender() bool {
	return n.DefenderSource() != nil
}

// OK reports hierarchy-local legality of this node and everything above it.
func (n *Node) OK() bool {
	n.eval(passChecking)
	return n.ok
}

func (n *Node) table() *RuleTable {
	if n.rules == nil {
		return defaultRules
	}
	return n.rules
}

// eval runs pass p at most once. Re-entering a pass still in flight means the
// rule table or the graph is not a DAG-respecting dependency chain.
func (n *Node) eval(p pass) {
	switch n.state[p] {
	case evaluated:
		return
	case evaluating:
		panic(errors.AssertionFailedf("re-entrant %s pass on %s", p, n))
	}
	n.state[p] = evaluating
	if _, err := n.table().group(p).Exec(n); err != nil {
		panic(err)
	}
	n.state[p] = evaluated
}

// assignName names n after its kind and its supertypes' names. The name is
// purely structural: structurally identical nodes share it and are therefore
// one entity.
func (n *Node) assignName() {
	if n.name != "" {
		return
	}
	for _, s := range n.supertypes {
		s.assignName()
	}

	var sb strings.Builder
	if len(n.supertypes) > 0 {
		if n.IsInterface() {
			sb.WriteByte('I')
		} else {
			sb.WriteByte('C')
		}
		for _, s := range n.supertypes {
			sb.WriteString(s.name)
		}
		sb.WriteByte('_')
	}
	sb.WriteString(n.kind.Prefix())
	n.name = sb.String()
}

// Clone deep-copies the graph rooted at root without any derived state.
// Nodes shared inside the graph stay shared in the copy.
func Clone(root *Node) *Node {
	return root.clone(make(map[*Node]*Node))
}

func (n *Node) clone(memo map[*Node]*Node) *Node {
	if c, ok := memo[n]; ok {
		return c
	}
	var sc *Node
	if n.superclass != nil {
		sc = n.superclass.clone(memo)
	}
	ifaces := make([]*Node, 0, len(n.Interfaces()))
	for _, t := range n.Interfaces() {
		ifaces = append(ifaces, t.clone(memo))
	}
	c := NewNode(n.kind, sc, ifaces...)
	memo[n] = c
	return c
}
