package hierarchy

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrAmbiguousRule reports that two rules of one group matched the same node.
// The rule tables partition their input space, so this is a defect in the
// table itself and never a property of the hierarchy being evaluated.
var ErrAmbiguousRule = errors.New("ambiguous rule table")

// Rule is a named (guard, action) pair.
type Rule struct {
	Name   string
	Guard  func(n *Node) bool
	Action func(n *Node)
}

// RuleGroup is an ordered partial function over nodes: at most one rule may
// match any node.
type RuleGroup struct {
	Name  string
	Rules []Rule
}

// Exec runs the action of the single rule whose guard accepts n and reports
// whether one fired. A second matching guard yields ErrAmbiguousRule.
func (g *RuleGroup) Exec(n *Node) (bool, error) {
	var fired *Rule
	for i := range g.Rules {
		r := &g.Rules[i]
		if !r.Guard(n) {
			continue
		}
		if fired != nil {
			return true, errors.Wrapf(ErrAmbiguousRule, "group %s: rules %s and %s both match %s",
				g.Name, fired.Name, r.Name, n)
		}
		r.Action(n)
		fired = r
	}
	return fired != nil, nil
}

// RuleTable bundles the five groups a node is evaluated with.
type RuleTable struct {
	Provenance *RuleGroup
	Marker     *RuleGroup
	Resolution *RuleGroup
	Defender   *RuleGroup
	Checking   *RuleGroup
}

// defaultRules is used by nodes that were never given a table. It is set in
// init because the rule actions read node attributes, which read the table.
var defaultRules *RuleTable

func init() {
	defaultRules = NewRuleTable(MostSpecific)
}

// NewRuleTable builds a fresh rule table using the given provenance filter.
func NewRuleTable(filter ProvenanceFilter) *RuleTable {
	return &RuleTable{
		Provenance: provenanceGroup(filter),
		Marker:     markerGroup(),
		Resolution: resolutionGroup(),
		Defender:   defenderGroup(),
		Checking:   checkingGroup(),
	}
}

// Groups returns the groups in evaluation dependency order.
func (t *RuleTable) Groups() []*RuleGroup {
	return []*RuleGroup{t.Provenance, t.Marker, t.Resolution, t.Defender, t.Checking}
}

func (t *RuleTable) group(p pass) *RuleGroup {
	switch p {
	case passProvenance:
		return t.Provenance
	case passMarker:
		return t.Marker
	case passResolution:
		return t.Resolution
	case passDefender:
		return t.Defender
	case passChecking:
		return t.Checking
	}
	panic(errors.AssertionFailedf("no rule group for pass %d", int(p)))
}

// ProvenanceFilter selects how merged provenance candidates are pruned.
type ProvenanceFilter int

const (
	// MostSpecific keeps only candidates no other candidate overrides.
	MostSpecific ProvenanceFilter = iota
	// Literal reproduces the historical pairwise test, which keeps every
	// candidate because each one trivially passes against itself.
	Literal
)

// String returns the configuration name of the filter.
func (f ProvenanceFilter) String() string {
	switch f {
	case MostSpecific:
		return "most-specific"
	case Literal:
		return "literal"
	default:
		return "unknown"
	}
}

// ParseProvenanceFilter maps a configuration name to its filter.
func ParseProvenanceFilter(name string) (ProvenanceFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "most-specific":
		return MostSpecific, nil
	case "literal":
		return Literal, nil
	}
	return 0, errors.WithHint(
		errors.Newf("unknown provenance filter %q", name),
		"use most-specific or literal")
}

// apply prunes the merged candidate set. Candidates are compared by id, so
// cloned occurrences of one declaration count once.
func (f ProvenanceFilter) apply(candidates []*Node) []*Node {
	var tops []*Node
	switch f {
	case Literal:
		for _, w := range candidates {
			for _, v := range candidates {
				if v.Equal(w) || !v.IsSubtypeOf(w) {
					tops = appendUnique(tops, w)
				}
			}
		}
	default:
		for _, w := range candidates {
			dominated := false
			for _, v := range candidates {
				if !v.Equal(w) && v.IsSubtypeOf(w) {
					dominated = true
					break
				}
			}
			if !dominated {
				tops = append(tops, w)
			}
		}
	}
	return tops
}

// appendUnique appends n unless the slice already holds a node with its id.
func appendUnique(set []*Node, n *Node) []*Node {
	for _, m := range set {
		if m.Equal(n) {
			return set
		}
	}
	return append(set, n)
}
