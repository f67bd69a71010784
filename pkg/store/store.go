// Package store provides the file-backed command history store used by the
// interactive shell. The engine core itself owns no persistent state.
package store

import (
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/strand-sh/strand/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

const bucketCmd = "cmd"

// ErrNoMatchingCmd is returned when a history query completes with no
// result.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Store is a file-backed history store. It is safe for concurrent use.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the history database at path. Opening times out
// instead of blocking forever when another process holds the file lock.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Printf("opened history store %s", path)
	return &Store{db}, nil
}

// Close closes the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
