// Package sqlite exposes the factory for the SQLite census store while
// keeping the table implementations internal.
package sqlite

import (
	"github.com/mesh-intelligence/census/internal/sqlite"
	"github.com/mesh-intelligence/census/pkg/types"
)

// NewBackend creates a new SQLite store.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".census-db",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
