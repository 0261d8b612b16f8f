package hierarchy

import (
	"strconv"
	"strings"

	"github.com/corey/shapegen/internal/ports"
)

// Describe reconstructs the hierarchy in the shape language, annotated with
// kinds. Classes get A, B, ... and interfaces a, b, ... in first-reachable
// order; each letter is followed by ":" and the kind prefix. An entity
// already printed, by id, appears again as its bare letter, so a diamond
// reads the way it is written in a shape.
//
//	A:n(B:c b:d)    class A extends concrete B, implements default b
func (h *Hierarchy) Describe() string {
	d := describer{letters: make(map[string]string)}
	var sb strings.Builder
	d.write(&sb, h.root)
	return sb.String()
}

type describer struct {
	letters    map[string]string // id -> letter
	classes    int
	interfaces int
}

func (d *describer) write(sb *strings.Builder, n *Node) {
	if l, ok := d.letters[n.ID()]; ok {
		sb.WriteString(l)
		return
	}
	var l string
	if n.IsClass() {
		l = letter('A', d.classes)
		d.classes++
	} else {
		l = letter('a', d.interfaces)
		d.interfaces++
	}
	d.letters[n.ID()] = l

	sb.WriteString(l)
	sb.WriteByte(':')
	sb.WriteString(n.kind.Prefix())
	if len(n.supertypes) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, s := range n.supertypes {
		if i > 0 {
			sb.WriteByte(' ')
		}
		d.write(sb, s)
	}
	sb.WriteByte(')')
}

// letter returns the i-th letter from base, suffixed with the lap number
// once the alphabet runs out.
func letter(base byte, i int) string {
	s := string(rune(base) + rune(i%26))
	if i >= 26 {
		s += strconv.Itoa(i / 26)
	}
	return s
}

// Declarations returns one declaration per reachable entity, supertypes
// first, so an emitter can write them in order. Cloned occurrences of one
// entity are declared once.
func (h *Hierarchy) Declarations() []ports.Declaration {
	out := make([]ports.Declaration, 0, len(h.all))
	seen := make(map[string]bool, len(h.all))
	for _, n := range h.all {
		if seen[n.ID()] {
			continue
		}
		seen[n.ID()] = true
		d := ports.Declaration{
			Name:      n.ID(),
			Interface: n.IsInterface(),
			Kind:      n.kind.String(),
			Method:    methodPresence(n.kind),
			Legal:     n.OK(),
		}
		if n.superclass != nil {
			d.Superclass = n.superclass.ID()
		}
		for _, t := range n.Interfaces() {
			d.Interfaces = append(d.Interfaces, t.ID())
		}
		if r := n.Resolved(); r != nil {
			d.Resolved = r.ID()
		}
		if s := n.DefenderSource(); s != nil {
			d.Defender = s.ID()
		}
		out = append(out, d)
	}
	return out
}

// Record returns the storable form of the classified hierarchy.
func (h *Hierarchy) Record() ports.HierarchyRecord {
	return ports.HierarchyRecord{
		Name:         h.Key(),
		Shape:        h.Describe(),
		Legal:        h.IsLegal(),
		Declarations: h.Declarations(),
	}
}

func methodPresence(k Kind) ports.MethodPresence {
	switch k {
	case InterfaceAbstract, ClassAbstract:
		return ports.MethodAbstract
	case InterfaceDefault:
		return ports.MethodDefault
	case ClassConcrete:
		return ports.MethodConcrete
	default:
		return ports.MethodNone
	}
}
