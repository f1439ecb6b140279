// Package sqlite implements the SQLite storage backend for census.
// The database file is the source of truth; the schema is installed from
// embedded goose migrations on Attach.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/census/pkg/types"
)

// DatabaseFile is the name of the SQLite file created inside Config.DataDir.
const DatabaseFile = "census.db"

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on a single SQLite database.
//
// All access goes through one connection, so the statements of a
// transaction started by Update are never interleaved with other writes.
// fn passed to Update must only use the Tx it receives; calling the
// Backend's own collections from inside fn blocks forever.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens (or creates) DataDir/census.db and installs the schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return storageError("creating data dir", err)
	}

	dsn := "file:" + filepath.Join(dataDir, DatabaseFile) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return storageError("opening database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return storageError("pinging database", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return storageError("installing schema", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return storageError("closing database", err)
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Collection returns a Collection whose operations each run on their own.
// Returns ErrDetached if the backend is not attached and
// ErrCollectionNotFound if the name is not recognized.
func (b *Backend) Collection(name string) (types.Collection, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	if !isStandardCollection(name) {
		return nil, types.ErrCollectionNotFound
	}
	return &backendCollection{backend: b, name: name}, nil
}

// Update runs fn in one SQLite transaction. Any error from fn, or from the
// commit, rolls back every write made through tx.
func (b *Backend) Update(fn func(tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}

	sqlTx, err := b.db.Begin()
	if err != nil {
		return storageError("beginning transaction", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txn{q: sqlTx}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return storageError("committing transaction", err)
	}
	return nil
}

// txn implements types.Tx over a *sql.Tx.
type txn struct {
	q queryer
}

func (t *txn) Collection(name string) (types.Collection, error) {
	return newCollection(name, t.q)
}

// backendCollection runs each operation against the backend's database,
// checking the attach state first.
type backendCollection struct {
	backend *Backend
	name    string
}

func (c *backendCollection) with(fn func(types.Collection) error) error {
	c.backend.mu.RLock()
	defer c.backend.mu.RUnlock()

	if !c.backend.attached {
		return types.ErrDetached
	}
	coll, err := newCollection(c.name, c.backend.db)
	if err != nil {
		return err
	}
	return fn(coll)
}

func (c *backendCollection) Add(record any) (id int64, err error) {
	err = c.with(func(coll types.Collection) error {
		id, err = coll.Add(record)
		return err
	})
	return id, err
}

func (c *backendCollection) Get(key any) (record any, err error) {
	err = c.with(func(coll types.Collection) error {
		record, err = coll.Get(key)
		return err
	})
	return record, err
}

func (c *backendCollection) GetAll() (records []any, err error) {
	err = c.with(func(coll types.Collection) error {
		records, err = coll.GetAll()
		return err
	})
	return records, err
}

func (c *backendCollection) GetByIndex(index string, value any) (records []any, err error) {
	err = c.with(func(coll types.Collection) error {
		records, err = coll.GetByIndex(index, value)
		return err
	})
	return records, err
}

func (c *backendCollection) Put(record any) error {
	return c.with(func(coll types.Collection) error { return coll.Put(record) })
}

func (c *backendCollection) Delete(key any) error {
	return c.with(func(coll types.Collection) error { return coll.Delete(key) })
}

func (c *backendCollection) Clear() error {
	return c.with(func(coll types.Collection) error { return coll.Clear() })
}

// storageError wraps a database failure so callers can test for ErrStorage
// while keeping the driver error in the chain.
func storageError(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, types.ErrStorage, err)
}
