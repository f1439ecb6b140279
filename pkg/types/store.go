package types

import "errors"

// Store is the embedded persistence engine. Callers attach to a backend,
// access collections by name, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrDetached.
	Detach() error

	// Collection returns the Collection for the given name. Each operation
	// on it is atomic on its own.
	// Returns ErrCollectionNotFound if the name is not a standard collection.
	Collection(name string) (Collection, error)

	// Update runs fn inside a single transaction. If fn returns an error
	// every write made through tx is rolled back and the error is returned.
	Update(fn func(tx Tx) error) error
}

// Tx gives access to collections inside a Store.Update transaction.
// A Tx must not be used after fn returns.
type Tx interface {
	Collection(name string) (Collection, error)
}

// Collection provides uniform record operations for a single record type.
// Get and GetAll return any; callers type-assert to the concrete record
// (*Village, *House, *Member, *Setting, *AadhaarImage).
type Collection interface {
	// Add inserts a new record and returns the identifier assigned by the
	// store. Identifiers increase monotonically and are never reused, even
	// after Delete or Clear. The record's ID field is set on success.
	// Returns ErrNotAutoIncrement for keyed collections (settings, images).
	Add(record any) (int64, error)

	// Get retrieves the record with the given key.
	// Returns ErrNotFound if no record exists with that key.
	Get(key any) (any, error)

	// GetAll returns every record in insertion order.
	GetAll() ([]any, error)

	// GetByIndex returns the records whose indexed field equals value, in
	// insertion order. Returns ErrIndexNotFound for an unknown index.
	GetByIndex(index string, value any) ([]any, error)

	// Put creates or replaces the record stored under the record's key.
	Put(record any) error

	// Delete removes the record with the given key. Deleting an absent key
	// succeeds.
	Delete(key any) error

	// Clear removes every record. Identifier sequences are kept.
	Clear() error
}

// Store lifecycle errors.
var (
	ErrDetached           = errors.New("store is detached")
	ErrAlreadyAttached    = errors.New("store is already attached")
	ErrCollectionNotFound = errors.New("collection not found")
)

// Collection operation errors.
var (
	ErrInvalidID        = errors.New("invalid record key")
	ErrInvalidData      = errors.New("invalid record data")
	ErrIndexNotFound    = errors.New("index not found")
	ErrNotAutoIncrement = errors.New("collection does not assign identifiers")
)
