// Package ports defines the interfaces (contracts) that adapters must implement
// and the records that cross them. Domain logic depends only on these
// definitions, never on concrete implementations.
package ports

// Storage persists generator runs.
// The backing store (bbolt) keeps every run under its ID and remembers the
// most recent one. Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: SaveRun must be transactional. A crash mid-write must not
// corrupt previously committed runs.
type Storage interface {
	// SaveRun persists a run and marks it as the latest.
	// Overwrites any prior run with the same ID.
	SaveRun(run *Run) error

	// LoadRun retrieves a run by ID.
	// Returns nil, nil if no such run exists.
	LoadRun(id string) (*Run, error)

	// LatestRun retrieves the most recently saved run.
	// Returns nil, nil on a fresh store.
	LatestRun() (*Run, error)

	// ListRuns returns summaries of every stored run, oldest first.
	ListRuns() ([]RunSummary, error)

	// DeleteRun removes a run.
	// Idempotent: deleting a nonexistent run is not an error.
	DeleteRun(id string) error
}

// MethodPresence says how a declaration mentions the method under test.
type MethodPresence string

const (
	MethodNone     MethodPresence = "none"
	MethodAbstract MethodPresence = "abstract"
	MethodDefault  MethodPresence = "default"
	MethodConcrete MethodPresence = "concrete"
)

// Declaration is one class or interface of a classified hierarchy, in a form
// a source emitter can turn into a compilable file. Names refer to other
// declarations of the same hierarchy.
type Declaration struct {
	Name       string         `json:"name" yaml:"name"`
	Interface  bool           `json:"interface" yaml:"interface"`
	Kind       string         `json:"kind" yaml:"kind"`
	Superclass string         `json:"superclass,omitempty" yaml:"superclass,omitempty"`
	Interfaces []string       `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Method     MethodPresence `json:"method" yaml:"method"`
	Resolved   string         `json:"resolved,omitempty" yaml:"resolved,omitempty"` // declaration instances use
	Defender   string         `json:"defender,omitempty" yaml:"defender,omitempty"` // forwarding target, if one must be synthesized
	Legal      bool           `json:"legal" yaml:"legal"`
}

// HierarchyRecord is a classified hierarchy.
type HierarchyRecord struct {
	Name         string        `json:"name" yaml:"name"`   // root display name
	Shape        string        `json:"shape" yaml:"shape"` // compact description
	Legal        bool          `json:"legal" yaml:"legal"`
	Declarations []Declaration `json:"declarations" yaml:"declarations"` // supertypes first
}

// CorpusTally holds the classification counts of one corpus.
type CorpusTally struct {
	Corpus    string `json:"corpus"`
	NoDefault int    `json:"no_default"`
	Error     int    `json:"error"`
	OK        int    `json:"ok"`
	Total     int    `json:"total"`
}

// Run is one complete generator run.
type Run struct {
	ID         string            `json:"id"`
	CreatedAt  int64             `json:"created_at"` // unix seconds
	Provenance string            `json:"provenance"` // provenance filter in effect
	Tallies    []CorpusTally     `json:"tallies"`
	OK         []HierarchyRecord `json:"ok"`  // unique legal hierarchies
	Err        []HierarchyRecord `json:"err"` // unique conflicting hierarchies
}

// RunSummary is the listing form of a Run.
type RunSummary struct {
	ID         string `json:"id"`
	CreatedAt  int64  `json:"created_at"`
	Provenance string `json:"provenance"`
	OKCount    int    `json:"ok_count"`
	ErrCount   int    `json:"err_count"`
}

// Summary condenses a run for listings.
func (r *Run) Summary() RunSummary {
	return RunSummary{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		Provenance: r.Provenance,
		OKCount:    len(r.OK),
		ErrCount:   len(r.Err),
	}
}
