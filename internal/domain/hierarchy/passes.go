package hierarchy

// Each group below partitions the kind/shape space; RuleGroup.Exec enforces it.

func provenanceGroup(filter ProvenanceFilter) *RuleGroup {
	return &RuleGroup{Name: "Provenance", Rules: []Rule{
		{
			Name:  "P-CDeclare",
			Guard: func(n *Node) bool { return n.kind.isa(ClassConcrete, ClassAbstract) },
			Action: func(n *Node) {
				n.provenance = []*Node{n}
				n.hasClassDecl = true
			},
		},
		{
			Name:   "P-IDeclare",
			Guard:  func(n *Node) bool { return n.kind.isa(InterfaceDefault, InterfaceAbstract) },
			Action: func(n *Node) { n.provenance = []*Node{n} },
		},
		{
			Name: "P-IntfInh",
			Guard: func(n *Node) bool {
				return n.kind.isa(InterfaceVacuous, ClassNone) &&
					!(n.superclass != nil && n.superclass.HasClassDeclaration())
			},
			Action: func(n *Node) {
				var merged []*Node
				for _, t := range n.supertypes {
					for _, p := range t.Provenance() {
						merged = appendUnique(merged, p)
					}
				}
				n.provenance = filter.apply(merged)
			},
		},
		{
			Name: "P-ClassInh",
			Guard: func(n *Node) bool {
				return n.kind.isa(ClassNone) &&
					n.superclass != nil && n.superclass.HasClassDeclaration()
			},
			Action: func(n *Node) {
				n.provenance = n.superclass.Provenance()
				n.hasClassDecl = true
			},
		},
	}}
}

func markerGroup() *RuleGroup {
	return &RuleGroup{Name: "Marker", Rules: []Rule{
		{
			Name:   "M-Default",
			Guard:  func(n *Node) bool { return n.kind.isa(InterfaceDefault) },
			Action: func(n *Node) { n.hasDefault = true },
		},
		{
			Name:   "M-Conc",
			Guard:  func(n *Node) bool { return n.kind.isa(ClassConcrete) },
			Action: func(n *Node) { n.concrete = true },
		},
	}}
}

func resolutionGroup() *RuleGroup {
	return &RuleGroup{Name: "Resolution", Rules: []Rule{
		{
			Name: "R-Resolve",
			Guard: func(n *Node) bool {
				if !n.IsClass() {
					return false
				}
				prov := n.Provenance()
				if len(prov) != 1 {
					return false
				}
				return prov[0].IsConcrete() || prov[0].HasDefault()
			},
			Action: func(n *Node) { n.resolved = n.Provenance()[0] },
		},
	}}
}

func defenderGroup() *RuleGroup {
	return &RuleGroup{Name: "Defender", Rules: []Rule{
		{
			Name: "D-Defend",
			Guard: func(n *Node) bool {
				if !n.kind.isa(ClassNone) {
					return false
				}
				var inherited *Node
				if n.superclass != nil {
					inherited = n.superclass.Resolved()
				}
				return !n.Resolved().Equal(inherited)
			},
			Action: func(n *Node) { n.defender = n.Resolved() },
		},
	}}
}

func checkingGroup() *RuleGroup {
	return &RuleGroup{Name: "Checking", Rules: []Rule{
		{
			Name: "C-Check",
			Guard: func(n *Node) bool {
				for _, t := range n.supertypes {
					if !t.OK() {
						return false
					}
				}
				prov := n.Provenance()
				defaults := 0
				for _, p := range prov {
					if p.HasDefault() {
						defaults++
					}
				}
				return len(prov) <= 1 || defaults == 0
			},
			Action: func(n *Node) { n.ok = true },
		},
	}}
}
