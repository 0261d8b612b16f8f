// Package hierarchy models class/interface hierarchies and predicts, for the
// single method under test, which declaration every type inherits, whether a
// defender (forwarding) method must be synthesized, and whether the hierarchy
// is legal. All types are pure Go; evaluation is lazy and memoized per node.
package hierarchy

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind describes how a declaration site interacts with the method under test.
type Kind int

const (
	InterfaceVacuous  Kind = iota // interface that does not mention the method
	InterfaceAbstract             // interface declaring the method without a body
	InterfaceDefault              // interface declaring the method with a default body
	ClassNone                     // class that does not mention the method
	ClassAbstract                 // class declaring the method abstract
	ClassConcrete                 // class implementing the method
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{
	InterfaceVacuous, InterfaceAbstract, InterfaceDefault,
	ClassNone, ClassAbstract, ClassConcrete,
}

// IsInterface reports whether the kind tags an interface.
func (k Kind) IsInterface() bool {
	return k >= InterfaceVacuous && k <= InterfaceDefault
}

// IsClass reports whether the kind tags a class.
func (k Kind) IsClass() bool {
	return k >= ClassNone && k <= ClassConcrete
}

// Prefix returns the single-letter display prefix used in node names.
func (k Kind) Prefix() string {
	switch k {
	case InterfaceVacuous:
		return "v"
	case InterfaceAbstract:
		return "i"
	case InterfaceDefault:
		return "d"
	case ClassNone:
		return "n"
	case ClassAbstract:
		return "a"
	case ClassConcrete:
		return "c"
	default:
		return "?"
	}
}

// String returns the long kind name.
func (k Kind) String() string {
	switch k {
	case InterfaceVacuous:
		return "interface-vacuous"
	case InterfaceAbstract:
		return "interface-abstract"
	case InterfaceDefault:
		return "interface-default"
	case ClassNone:
		return "class-none"
	case ClassAbstract:
		return "class-abstract"
	case ClassConcrete:
		return "class-concrete"
	default:
		return "unknown"
	}
}

// ParseKind maps a long kind name back to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = k.String()
	}
	return 0, errors.WithHint(
		errors.Newf("unknown kind %q", name),
		"use one of "+strings.Join(names, ", "))
}

// isa reports whether k is one of the given kinds.
func (k Kind) isa(kinds ...Kind) bool {
	for _, o := range kinds {
		if k == o {
			return true
		}
	}
	return false
}
