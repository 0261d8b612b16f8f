// Package bbolt implements the ports.Storage interface using bbolt (embedded B+ tree).
// Runs live in the "runs" bucket under their ID. The "order" bucket maps a
// monotonically increasing sequence to the run ID so listings come out in save
// order, and "meta" remembers the latest run. Writes are transactional: a
// crash mid-write cannot corrupt previously committed runs.
package bbolt

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/corey/shapegen/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketRuns  = []byte("runs")
	bucketOrder = []byte("order")
	bucketMeta  = []byte("meta")
	keyLatest   = []byte("latest")
)

// Store implements ports.Storage backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.Storage = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "bbolt open %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketRuns, bucketOrder, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "bbolt init buckets")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run and marks it as the latest.
func (s *Store) SaveRun(run *ports.Run) error {
	if run == nil {
		return errors.New("nil run")
	}
	if run.ID == "" {
		return errors.New("run has no id")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		order := tx.Bucket(bucketOrder)

		if prev := runs.Get([]byte(run.ID)); prev != nil {
			old, err := decodeRun(prev)
			if err != nil {
				return errors.Wrapf(err, "decode run %s", run.ID)
			}
			// Overwrite moves the run to the end of the listing.
			if err := order.Delete(seqKey(old.seq)); err != nil {
				return err
			}
		}
		seq, err := order.NextSequence()
		if err != nil {
			return err
		}

		data, err := encodeRun(run, seq)
		if err != nil {
			return errors.Wrapf(err, "encode run %s", run.ID)
		}
		if err := runs.Put([]byte(run.ID), data); err != nil {
			return err
		}
		if err := order.Put(seqKey(seq), []byte(run.ID)); err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyLatest, []byte(run.ID))
	})
}

// LoadRun retrieves a run by ID.
// Returns nil, nil if no such run exists.
func (s *Store) LoadRun(id string) (*ports.Run, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketRuns).Get([]byte(id))
		if v == nil {
			return nil
		}
		// Copy: bbolt memory is only valid inside the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	st, err := decodeRun(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode run %s", id)
	}
	return st.Run, nil
}

// LatestRun retrieves the most recently saved run.
// Returns nil, nil on a fresh store.
func (s *Store) LatestRun() (*ports.Run, error) {
	var id string
	err := s.db.View(func(tx *bolt.Tx) error {
		id = string(tx.Bucket(bucketMeta).Get(keyLatest))
		return nil
	})
	if err != nil || id == "" {
		return nil, err
	}
	return s.LoadRun(id)
}

// ListRuns returns summaries of every stored run, oldest first.
func (s *Store) ListRuns() ([]ports.RunSummary, error) {
	var out []ports.RunSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		return tx.Bucket(bucketOrder).ForEach(func(_, id []byte) error {
			v := runs.Get(id)
			if v == nil {
				return errors.AssertionFailedf("order entry for missing run %s", id)
			}
			st, err := decodeRun(v)
			if err != nil {
				return errors.Wrapf(err, "decode run %s", id)
			}
			out = append(out, st.Run.Summary())
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRun removes a run.
// Idempotent: deleting a nonexistent run is not an error. Deleting the
// latest run makes the previous one latest.
func (s *Store) DeleteRun(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		v := runs.Get([]byte(id))
		if v == nil {
			return nil
		}
		st, err := decodeRun(v)
		if err != nil {
			return errors.Wrapf(err, "decode run %s", id)
		}

		order := tx.Bucket(bucketOrder)
		if err := order.Delete(seqKey(st.seq)); err != nil {
			return err
		}
		if err := runs.Delete([]byte(id)); err != nil {
			return err
		}

		meta := tx.Bucket(bucketMeta)
		if string(meta.Get(keyLatest)) != id {
			return nil
		}
		if _, last := order.Cursor().Last(); last != nil {
			return meta.Put(keyLatest, append([]byte(nil), last...))
		}
		return meta.Delete(keyLatest)
	})
}
