// ABOUTME: Badger-backed local cache for reference data and session history.
// ABOUTME: Prefixed JSON keys; read-through so history and stats work offline.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"github.com/harperreed/gymlog/internal/models"
)

const (
	exercisePrefix = "exercise:"
	templatePrefix = "template:"
	sessionPrefix  = "session:"
)

// Cache persists the exercise library, templates, and finished sessions
// locally. The active session is deliberately never cached: the server is
// authoritative for it and a stale copy would lie about progression.
type Cache struct {
	db *badger.DB
}

// Open opens or creates the cache under dir.
func Open(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// PutExercises stores library entries.
func (c *Cache) PutExercises(exercises []*models.Exercise) error {
	return c.putAll(exercisePrefix, func(yield func(string, any)) {
		for _, ex := range exercises {
			yield(ex.ID.String(), ex)
		}
	})
}

// Exercises returns all cached library entries.
func (c *Cache) Exercises() ([]*models.Exercise, error) {
	return listPrefix[models.Exercise](c, exercisePrefix)
}

// PutTemplates stores templates.
func (c *Cache) PutTemplates(templates []*models.WorkoutTemplate) error {
	return c.putAll(templatePrefix, func(yield func(string, any)) {
		for _, t := range templates {
			yield(t.ID.String(), t)
		}
	})
}

// Templates returns all cached templates.
func (c *Cache) Templates() ([]*models.WorkoutTemplate, error) {
	return listPrefix[models.WorkoutTemplate](c, templatePrefix)
}

// PutSessions stores finished sessions. Unfinished sessions are skipped.
func (c *Cache) PutSessions(sessions []*models.WorkoutSession) error {
	return c.putAll(sessionPrefix, func(yield func(string, any)) {
		for _, s := range sessions {
			if s.IsFinished {
				yield(s.ID.String(), s)
			}
		}
	})
}

// Sessions returns all cached sessions, unordered. Callers sort by clock-in.
func (c *Cache) Sessions() ([]*models.WorkoutSession, error) {
	return listPrefix[models.WorkoutSession](c, sessionPrefix)
}

// Session returns one cached session by ID.
func (c *Cache) Session(id uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionPrefix + id.String()))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return &session, nil
}

// putAll writes a batch of prefixed JSON values in one transaction.
func (c *Cache) putAll(prefix string, each func(yield func(id string, v any))) error {
	wb := c.db.NewWriteBatch()
	defer wb.Cancel()

	var batchErr error
	each(func(id string, v any) {
		if batchErr != nil {
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			batchErr = err
			return
		}
		if err := wb.Set([]byte(prefix+id), data); err != nil {
			batchErr = err
		}
	})
	if batchErr != nil {
		return fmt.Errorf("cache write: %w", batchErr)
	}
	return wb.Flush()
}

// listPrefix scans all values under a key prefix.
func listPrefix[T any](c *Cache, prefix string) ([]*T, error) {
	var out []*T
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var v T
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			})
			if err != nil {
				return err
			}
			out = append(out, &v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache scan %s: %w", prefix, err)
	}
	return out, nil
}

// DefaultDir returns the cache directory under the data dir.
func DefaultDir(dataDir string) string {
	return filepath.Join(dataDir, "cache")
}
