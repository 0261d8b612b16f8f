package generator

import (
	"github.com/corey/shapegen/internal/domain/hierarchy"
	"github.com/corey/shapegen/internal/ports"
)

// Result is the outcome of one generator run. OKCount and ErrCount count
// every classified hierarchy; OK and Err hold one representative per Key.
type Result struct {
	Tallies  []ports.CorpusTally
	OKCount  int
	ErrCount int

	ok      []*hierarchy.Hierarchy
	err     []*hierarchy.Hierarchy
	okSeen  map[string]bool
	errSeen map[string]bool
}

func newResult() *Result {
	return &Result{
		okSeen:  make(map[string]bool),
		errSeen: make(map[string]bool),
	}
}

// Organize classifies hs as one corpus. Hierarchies without a default are
// only counted; the rest land in the OK or Err set, deduplicated by Key
// within each set. Evaluation panics propagate to the caller.
func (r *Result) Organize(corpus string, hs []*hierarchy.Hierarchy) ports.CorpusTally {
	tally := ports.CorpusTally{Corpus: corpus}
	for _, h := range hs {
		tally.Total++
		if !h.AnyDefault() {
			tally.NoDefault++
			continue
		}
		key := h.Key()
		if h.IsLegal() {
			tally.OK++
			if !r.okSeen[key] {
				r.okSeen[key] = true
				r.ok = append(r.ok, h)
			}
		} else {
			tally.Error++
			if !r.errSeen[key] {
				r.errSeen[key] = true
				r.err = append(r.err, h)
			}
		}
	}
	r.OKCount += tally.OK
	r.ErrCount += tally.Error
	r.Tallies = append(r.Tallies, tally)
	return tally
}

// OK returns the unique legal hierarchies, in first-seen order.
func (r *Result) OK() []*hierarchy.Hierarchy { return r.ok }

// Err returns the unique conflicting hierarchies, in first-seen order.
func (r *Result) Err() []*hierarchy.Hierarchy { return r.err }

// Tally returns the counts of the named corpus.
func (r *Result) Tally(corpus string) (ports.CorpusTally, bool) {
	for _, t := range r.Tallies {
		if t.Corpus == corpus {
			return t, true
		}
	}
	return ports.CorpusTally{}, false
}

// Records converts both unique sets to storage records.
func (r *Result) Records() (ok, bad []ports.HierarchyRecord) {
	ok = make([]ports.HierarchyRecord, 0, len(r.ok))
	for _, h := range r.ok {
		ok = append(ok, h.Record())
	}
	bad = make([]ports.HierarchyRecord, 0, len(r.err))
	for _, h := range r.err {
		bad = append(bad, h.Record())
	}
	return ok, bad
}
