package hierarchy

// Option configures a Hierarchy.
type Option func(*options)

type options struct {
	rules *RuleTable
}

// WithRules evaluates every node of the hierarchy with t instead of the
// default most-specific table. Must be applied before any attribute is read.
func WithRules(t *RuleTable) Option {
	return func(o *options) { o.rules = t }
}

// Hierarchy is a root node plus every node reachable through supertypes.
// Two hierarchies with the same computed shape share the same Key.
type Hierarchy struct {
	root *Node
	all  []*Node // post-order: supertypes before subtypes
}

// New names every reachable node and collects the reachable set.
func New(root *Node, opts ...Option) *Hierarchy {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	h := &Hierarchy{root: root}
	h.collect(root, make(map[*Node]bool))
	if o.rules != nil {
		for _, n := range h.all {
			n.rules = o.rules
		}
	}
	root.assignName()
	return h
}

func (h *Hierarchy) collect(n *Node, seen map[*Node]bool) {
	if seen[n] {
		return
	}
	seen[n] = true
	for _, s := range n.supertypes {
		h.collect(s, seen)
	}
	h.all = append(h.all, n)
}

// Root returns the root node.
func (h *Hierarchy) Root() *Node { return h.root }

// Nodes returns every reachable node, supertypes first.
func (h *Hierarchy) Nodes() []*Node { return h.all }

// IsLegal reports whether the hierarchy has no unresolvable conflict.
// Forces evaluation of every pass the root's legality depends on.
func (h *Hierarchy) IsLegal() bool { return h.root.OK() }

// AnyDefault reports whether some reachable node declares a default.
func (h *Hierarchy) AnyDefault() bool {
	for _, n := range h.all {
		if n.kind == InterfaceDefault {
			return true
		}
	}
	return false
}

// Key returns the dedup identity of the hierarchy: the root's id.
func (h *Hierarchy) Key() string { return h.root.ID() }

// Equal reports whether both hierarchies have the same computed shape.
func (h *Hierarchy) Equal(o *Hierarchy) bool {
	return o != nil && h.Key() == o.Key()
}

// TestName returns the name generated test sources use for this hierarchy.
func (h *Hierarchy) TestName() string { return h.root.ID() + "Test" }

// String returns the root's display name.
func (h *Hierarchy) String() string { return h.root.String() }
