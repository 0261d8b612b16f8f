package generator

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/adapters/catalog"
	"github.com/corey/shapegen/internal/domain/hierarchy"
	"github.com/corey/shapegen/internal/domain/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func quiet() Option { return WithLogger(zap.NewNop().Sugar()) }

func TestInterfaceExhaustive_Count(t *testing.T) {
	hs := New(quiet()).InterfaceExhaustive()
	require.Len(t, hs, 21)

	keys := make(map[string]bool)
	for _, h := range hs {
		assert.Equal(t, hierarchy.ClassNone, h.Root().Kind(), "every top interface is wrapped in a class")
		require.Len(t, h.Root().Supertypes(), 1)
		assert.True(t, h.Root().Supertypes()[0].IsInterface())
		keys[h.Key()] = true
	}
	assert.Len(t, keys, 21, "lattice tops are pairwise distinct")

	assert.Len(t, New(quiet(), WithInterfaceDepth(1)).InterfaceExhaustive(), 3)
	assert.Len(t, New(quiet(), WithInterfaceDepth(0)).InterfaceExhaustive(), 21, "invalid depth keeps the default")
}

func TestInterfaceExhaustive_HierarchiesAreIndependent(t *testing.T) {
	hs := New(quiet()).InterfaceExhaustive()
	owner := make(map[*hierarchy.Node]int)
	for i, h := range hs {
		for _, n := range h.Nodes() {
			prev, ok := owner[n]
			assert.False(t, ok && prev != i, "node %s shared between hierarchies %d and %d", n, prev, i)
			owner[n] = i
		}
	}
}

func TestClassExhaustive_Count(t *testing.T) {
	hs := New(quiet()).ClassExhaustive()
	require.Len(t, hs, 1728)

	for _, h := range hs {
		root := h.Root()
		require.NotNil(t, root.Superclass())
		require.NotNil(t, root.Superclass().Superclass())
		assert.Nil(t, root.Superclass().Superclass().Superclass())
		for _, n := range h.Nodes() {
			assert.LessOrEqual(t, len(n.Interfaces()), 1)
		}
	}
}

func TestSubsetsUpTo(t *testing.T) {
	nodes := []*hierarchy.Node{
		hierarchy.NewNode(hierarchy.InterfaceVacuous, nil),
		hierarchy.NewNode(hierarchy.InterfaceAbstract, nil),
		hierarchy.NewNode(hierarchy.InterfaceDefault, nil),
	}
	subsets := subsetsUpTo(nodes, 2)
	require.Len(t, subsets, 7)
	assert.Empty(t, subsets[0])
	for _, s := range subsets {
		assert.LessOrEqual(t, len(s), 2)
	}
	assert.Len(t, subsetsUpTo(nil, 2), 1)
}

func TestRun_Tallies(t *testing.T) {
	entries, err := shape.LoadCatalogFromFS(catalog.FS, catalog.Dir)
	require.NoError(t, err)

	res, err := New(quiet(), WithShapes(shape.Shapes(entries)...)).Run()
	require.NoError(t, err)
	require.Len(t, res.Tallies, 4)

	names := []string{CorpusInterfaceExhaustive, CorpusClassExhaustive, CorpusInterfaceShapes, CorpusMixedShapes}
	okSum, errSum := 0, 0
	for i, tally := range res.Tallies {
		assert.Equal(t, names[i], tally.Corpus)
		assert.Equal(t, tally.Total, tally.NoDefault+tally.Error+tally.OK, tally.Corpus)
		assert.Positive(t, tally.Total, tally.Corpus)
		okSum += tally.OK
		errSum += tally.Error
	}
	assert.Equal(t, okSum, res.OKCount)
	assert.Equal(t, errSum, res.ErrCount)

	ie, ok := res.Tally(CorpusInterfaceExhaustive)
	require.True(t, ok)
	assert.Equal(t, 21, ie.Total)
	assert.Equal(t, 8, ie.NoDefault, "vacuous or abstract tops over non-default subsets")

	ce, ok := res.Tally(CorpusClassExhaustive)
	require.True(t, ok)
	assert.Equal(t, 1728, ce.Total)
	assert.Equal(t, 27*27, ce.NoDefault)
	assert.Positive(t, ce.Error)
	assert.Positive(t, ce.OK)

	_, ok = res.Tally("nope")
	assert.False(t, ok)

	assert.LessOrEqual(t, len(res.OK()), res.OKCount)
	assert.LessOrEqual(t, len(res.Err()), res.ErrCount)
	assert.NotEmpty(t, res.OK())
	assert.NotEmpty(t, res.Err())
}

func TestRun_UniqueSets(t *testing.T) {
	res, err := New(quiet(), WithShapes("a(b(c)d(c))")).Run()
	require.NoError(t, err)

	for name, set := range map[string][]*hierarchy.Hierarchy{"ok": res.OK(), "err": res.Err()} {
		seen := make(map[string]bool)
		for _, h := range set {
			assert.False(t, seen[h.Key()], "%s set holds %s twice", name, h.Key())
			seen[h.Key()] = true
		}
	}
	for _, h := range res.OK() {
		assert.True(t, h.IsLegal())
		assert.True(t, h.AnyDefault())
	}
	for _, h := range res.Err() {
		assert.False(t, h.IsLegal())
	}
}

func TestRun_DuplicateShapesDoNotGrowUniqueSets(t *testing.T) {
	once, err := New(quiet(), WithShapes("a(b)")).Run()
	require.NoError(t, err)

	// Letters do not reach the computed names, so a(c) repeats a(b) exactly.
	twice, err := New(quiet(), WithShapes("a(b)", "a(c)")).Run()
	require.NoError(t, err)

	assert.Equal(t, len(once.OK()), len(twice.OK()))
	assert.Equal(t, len(once.Err()), len(twice.Err()))
	assert.Greater(t, twice.OKCount, once.OKCount)
}

func TestRun_RunsAreIndependent(t *testing.T) {
	g := New(quiet(), WithShapes("a(b)"))
	first, err := g.Run()
	require.NoError(t, err)
	second, err := g.Run()
	require.NoError(t, err)

	assert.Equal(t, first.OKCount, second.OKCount)
	assert.Equal(t, first.Tallies, second.Tallies)
	assert.NotSame(t, first, second)
}

func TestRun_MalformedShape(t *testing.T) {
	_, err := New(quiet(), WithShapes("a", "A(")).Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shape.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), CorpusInterfaceShapes)
}

func TestRun_AmbiguousTableBecomesError(t *testing.T) {
	g := New(quiet())
	g.rules.Marker = &hierarchy.RuleGroup{Name: "Broken", Rules: []hierarchy.Rule{
		{Name: "x", Guard: func(*hierarchy.Node) bool { return true }, Action: func(*hierarchy.Node) {}},
		{Name: "y", Guard: func(*hierarchy.Node) bool { return true }, Action: func(*hierarchy.Node) {}},
	}}

	res, err := g.Run()
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, hierarchy.ErrAmbiguousRule))
	assert.Contains(t, err.Error(), CorpusInterfaceExhaustive)
}

func TestRun_ProvenanceFilters(t *testing.T) {
	for _, f := range []hierarchy.ProvenanceFilter{hierarchy.MostSpecific, hierarchy.Literal} {
		t.Run(f.String(), func(t *testing.T) {
			g := New(quiet(), WithProvenanceFilter(f), WithShapes("a(b(c)c)"))
			assert.Equal(t, f, g.Filter())
			res, err := g.Run()
			require.NoError(t, err)
			assert.Equal(t, 4, len(res.Tallies))
		})
	}

	// Re-declaring an inherited default is legal only when the filter
	// drops the less specific provider.
	strict, err := New(quiet(), WithShapes("a(b(c)c)")).Run()
	require.NoError(t, err)
	literal, err := New(quiet(), WithProvenanceFilter(hierarchy.Literal), WithShapes("a(b(c)c)")).Run()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, literal.ErrCount, strict.ErrCount)
}

func TestRun_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	_, err := New(WithLogger(zap.New(core).Sugar()), WithShapes("a(b)")).Run()
	require.NoError(t, err)

	assert.Equal(t, 4, logs.FilterMessage("corpus classified").Len())
	assert.Equal(t, 1, logs.FilterMessage("corpus classified").FilterField(zap.String("corpus", CorpusClassExhaustive)).Len())
	assert.Equal(t, 1, logs.FilterMessage("generation complete").Len())
	assert.Zero(t, logs.FilterMessage("shape enumerated").Len(), "debug entries stay below info")
}

func TestResult_Records(t *testing.T) {
	res, err := New(quiet(), WithShapes("a(b)")).Run()
	require.NoError(t, err)

	ok, bad := res.Records()
	require.Len(t, ok, len(res.OK()))
	require.Len(t, bad, len(res.Err()))
	for i, rec := range ok {
		assert.Equal(t, res.OK()[i].Key(), rec.Name)
		assert.True(t, rec.Legal)
		assert.NotEmpty(t, rec.Declarations)
	}
	for _, rec := range bad {
		assert.False(t, rec.Legal)
	}
}

func TestHierarchies_WrapsInterfaceRoots(t *testing.T) {
	g := New(quiet())
	hs, err := g.Hierarchies("a(b)", false)
	require.NoError(t, err)
	require.Len(t, hs, 6)
	for _, h := range hs {
		assert.Equal(t, hierarchy.ClassNone, h.Root().Kind())
		assert.Nil(t, h.Root().Superclass())
	}

	_, err = g.Hierarchies("A(", true)
	require.Error(t, err)
}

func TestRun_DiamondShapeTallies(t *testing.T) {
	// a(b(c)c) has 18 kind assignments; the four without a default are
	// counted apart and every other one is legal, since both copies of c are
	// one entity.
	res, err := New(quiet(), WithShapes("a(b(c)c)")).Run()
	require.NoError(t, err)

	for _, corpus := range []string{CorpusInterfaceShapes, CorpusMixedShapes} {
		tally, ok := res.Tally(corpus)
		require.True(t, ok, corpus)
		assert.Equal(t, 18, tally.Total, corpus)
		assert.Equal(t, 4, tally.NoDefault, corpus)
		assert.Equal(t, 14, tally.OK, corpus)
		assert.Equal(t, 0, tally.Error, corpus)
	}
}
