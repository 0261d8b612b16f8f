// Package generator builds the hierarchy corpora, classifies every hierarchy
// that carries a default as legal or conflicting, and deduplicates the result.
package generator

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/domain/hierarchy"
	"github.com/corey/shapegen/internal/domain/shape"
	"github.com/corey/shapegen/internal/logger"
	"go.uber.org/zap"
)

// Corpus names, in run order.
const (
	CorpusInterfaceExhaustive = "exhaustive interface"
	CorpusClassExhaustive     = "exhaustive class"
	CorpusInterfaceShapes     = "shapes interface"
	CorpusMixedShapes         = "shapes class/interface"
)

// DefaultInterfaceDepth is the number of levels of the exhaustive interface lattice.
const DefaultInterfaceDepth = 2

// Generator produces and classifies hierarchy corpora. It holds no state
// between runs; every Run returns a fresh Result.
type Generator struct {
	shapes []string
	filter hierarchy.ProvenanceFilter
	rules  *hierarchy.RuleTable
	depth  int
	log    *zap.SugaredLogger
}

// Option configures a Generator.
type Option func(*Generator)

// WithShapes sets the catalog shapes used by the shape corpora.
func WithShapes(shapes ...string) Option {
	return func(g *Generator) { g.shapes = append([]string(nil), shapes...) }
}

// WithProvenanceFilter selects the provenance filter of the rule table.
func WithProvenanceFilter(f hierarchy.ProvenanceFilter) Option {
	return func(g *Generator) { g.filter = f }
}

// WithInterfaceDepth sets the depth of the exhaustive interface lattice.
// Values below 1 keep the default.
func WithInterfaceDepth(depth int) Option {
	return func(g *Generator) {
		if depth >= 1 {
			g.depth = depth
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a generator. Without WithShapes the shape corpora are empty.
func New(opts ...Option) *Generator {
	g := &Generator{
		filter: hierarchy.MostSpecific,
		depth:  DefaultInterfaceDepth,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = logger.Named("generator")
	}
	g.rules = hierarchy.NewRuleTable(g.filter)
	return g
}

// Filter returns the provenance filter in effect.
func (g *Generator) Filter() hierarchy.ProvenanceFilter { return g.filter }

type corpus struct {
	name  string
	build func() ([]*hierarchy.Hierarchy, error)
}

// Run builds and classifies every corpus. A malformed shape or a rule-table
// defect aborts the run with an error naming the corpus.
func (g *Generator) Run() (*Result, error) {
	start := time.Now()
	res := newResult()

	corpora := []corpus{
		{CorpusInterfaceExhaustive, func() ([]*hierarchy.Hierarchy, error) { return g.InterfaceExhaustive(), nil }},
		{CorpusClassExhaustive, func() ([]*hierarchy.Hierarchy, error) { return g.ClassExhaustive(), nil }},
		{CorpusInterfaceShapes, g.InterfaceShapes},
		{CorpusMixedShapes, g.MixedShapes},
	}
	for _, c := range corpora {
		if err := g.runCorpus(res, c); err != nil {
			return nil, err
		}
	}

	g.log.Infow("generation complete",
		"ok", res.OKCount, "unique_ok", len(res.ok),
		"error", res.ErrCount, "unique_error", len(res.err),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return res, nil
}

// runCorpus builds and organizes one corpus, turning evaluation panics into
// an error for that corpus.
func (g *Generator) runCorpus(res *Result, c corpus) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrapf(e, "corpus %s", c.name)
			} else {
				err = errors.Newf("corpus %s: %v", c.name, r)
			}
		}
	}()

	hs, err := c.build()
	if err != nil {
		return errors.Wrapf(err, "corpus %s", c.name)
	}
	tally := res.Organize(c.name, hs)
	g.log.Infow("corpus classified",
		logger.FieldCorpus, c.name,
		"no_default", tally.NoDefault,
		"error", tally.Error,
		"ok", tally.OK,
		"total", tally.Total)
	return nil
}

func (g *Generator) hierarchy(root *hierarchy.Node) *hierarchy.Hierarchy {
	return hierarchy.New(root, hierarchy.WithRules(g.rules))
}

// wrapInClass puts an interface root under a class-none root, so the
// hierarchy has a class whose resolution can be checked.
func (g *Generator) wrapInClass(root *hierarchy.Node) *hierarchy.Hierarchy {
	if root.IsInterface() {
		root = hierarchy.NewNode(hierarchy.ClassNone, nil, root)
	}
	return g.hierarchy(root)
}

// InterfaceExhaustive builds every interface lattice of the configured depth:
// each level holds one interface per interface kind and per subset (up to two
// members) of the previous level. Each top interface is wrapped in a class.
func (g *Generator) InterfaceExhaustive() []*hierarchy.Hierarchy {
	var level []*hierarchy.Node
	for i := 0; i < g.depth; i++ {
		level = interfaceLevel(level)
	}
	out := make([]*hierarchy.Hierarchy, 0, len(level))
	for _, n := range level {
		// Lower levels are shared between tops; each hierarchy gets its own copy.
		out = append(out, g.wrapInClass(hierarchy.Clone(n)))
	}
	return out
}

func interfaceLevel(prev []*hierarchy.Node) []*hierarchy.Node {
	subsets := subsetsUpTo(prev, 2)
	out := make([]*hierarchy.Node, 0, 3*len(subsets))
	for _, k := range []hierarchy.Kind{hierarchy.InterfaceVacuous, hierarchy.InterfaceAbstract, hierarchy.InterfaceDefault} {
		for _, sub := range subsets {
			out = append(out, hierarchy.NewNode(k, nil, sub...))
		}
	}
	return out
}

// subsetsUpTo returns every order-preserving subset of nodes with at most max
// members, the empty set first.
func subsetsUpTo(nodes []*hierarchy.Node, max int) [][]*hierarchy.Node {
	out := [][]*hierarchy.Node{nil}
	var grow func(start int, cur []*hierarchy.Node)
	grow = func(start int, cur []*hierarchy.Node) {
		if len(cur) == max {
			return
		}
		for i := start; i < len(nodes); i++ {
			next := append(append([]*hierarchy.Node(nil), cur...), nodes[i])
			out = append(out, next)
			grow(i+1, next)
		}
	}
	grow(0, nil)
	return out
}

// noInterface marks "this class implements nothing" in ClassExhaustive.
const noInterface hierarchy.Kind = -1

// ClassExhaustive builds every three-level class chain in which each class
// has any class kind and optionally implements one leaf interface.
func (g *Generator) ClassExhaustive() []*hierarchy.Hierarchy {
	iKinds := []hierarchy.Kind{hierarchy.InterfaceDefault, hierarchy.InterfaceVacuous, hierarchy.InterfaceAbstract, noInterface}
	cKinds := []hierarchy.Kind{hierarchy.ClassNone, hierarchy.ClassAbstract, hierarchy.ClassConcrete}

	var out []*hierarchy.Hierarchy
	for _, i1 := range iKinds {
		for _, i2 := range iKinds {
			for _, i3 := range iKinds {
				for _, c1 := range cKinds {
					for _, c2 := range cKinds {
						for _, c3 := range cKinds {
							a := hierarchy.NewNode(c1, nil, leaf(i1)...)
							b := hierarchy.NewNode(c2, a, leaf(i2)...)
							c := hierarchy.NewNode(c3, b, leaf(i3)...)
							out = append(out, g.hierarchy(c))
						}
					}
				}
			}
		}
	}
	return out
}

func leaf(k hierarchy.Kind) []*hierarchy.Node {
	if k == noInterface {
		return nil
	}
	return []*hierarchy.Node{hierarchy.NewNode(k, nil)}
}

// InterfaceShapes enumerates every catalog shape with classes disabled.
func (g *Generator) InterfaceShapes() ([]*hierarchy.Hierarchy, error) {
	return g.shapeCorpus(false)
}

// MixedShapes enumerates every catalog shape with classes enabled.
func (g *Generator) MixedShapes() ([]*hierarchy.Hierarchy, error) {
	return g.shapeCorpus(true)
}

func (g *Generator) shapeCorpus(includeClasses bool) ([]*hierarchy.Hierarchy, error) {
	var out []*hierarchy.Hierarchy
	for _, s := range g.shapes {
		hs, err := g.Hierarchies(s, includeClasses)
		if err != nil {
			return nil, err
		}
		out = append(out, hs...)
	}
	return out, nil
}

// Hierarchies enumerates a single shape the way the shape corpora do:
// every valid kind assignment, interface roots wrapped in a class.
func (g *Generator) Hierarchies(s string, includeClasses bool) ([]*hierarchy.Hierarchy, error) {
	t, err := shape.Parse(s)
	if err != nil {
		return nil, err
	}
	cases := t.Cases(includeClasses)
	g.log.Debugw("shape enumerated", logger.FieldShape, s, "classes", includeClasses, logger.FieldCount, len(cases))
	out := make([]*hierarchy.Hierarchy, 0, len(cases))
	for _, root := range cases {
		out = append(out, g.wrapInClass(root))
	}
	return out, nil
}
