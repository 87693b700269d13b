package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("decisions")

// Decision is one recorded per-file classification outcome. Heuristic
// decisions carry no probability.
type Decision struct {
	Path        string    `json:"path"`
	Label       int       `json:"label"`
	Probability float64   `json:"probability,omitempty"`
	ByFileName  bool      `json:"by_file_name,omitempty"`
	RunID       string    `json:"run_id"`
	DecidedAt   time.Time `json:"decided_at"`
}

// Store persists decisions across runs so an interrupted batch can be
// resumed without re-classifying already-decided files. Single writer;
// concurrent runs must not share one store file.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the decision store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for state db: %w", err)
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores the decision for its source path, overwriting any
// previous record for the same path.
func (s *Store) Record(d Decision) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(d.Path), data)
	})
}

// Seen reports whether any run has recorded a decision for path.
func (s *Store) Seen(path string) (bool, error) {
	var seen bool
	err := s.db.View(func(tx *bolt.Tx) error {
		seen = tx.Bucket(bucketName).Get([]byte(path)) != nil
		return nil
	})
	return seen, err
}

// Lookup returns the recorded decision for path, if any.
func (s *Store) Lookup(path string) (*Decision, error) {
	var d *Decision
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(path))
		if data == nil {
			return nil
		}
		d = &Decision{}
		return json.Unmarshal(data, d)
	})
	return d, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
