package sqlite

import (
	"database/sql"
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// queryer is satisfied by both *sql.DB and *sql.Tx, so the same table code
// serves single operations and Update transactions.
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// newCollection routes a collection name to its table implementation.
func newCollection(name string, q queryer) (types.Collection, error) {
	switch name {
	case types.VillagesCollection:
		return &villagesTable{q: q}, nil
	case types.HousesCollection:
		return &housesTable{q: q}, nil
	case types.MembersCollection:
		return &membersTable{q: q}, nil
	case types.SettingsCollection:
		return &settingsTable{q: q}, nil
	case types.AadhaarImagesCollection:
		return &aadhaarTable{q: q}, nil
	default:
		return nil, types.ErrCollectionNotFound
	}
}

func isStandardCollection(name string) bool {
	for _, n := range types.StandardCollectionNames {
		if n == name {
			return true
		}
	}
	return false
}

// int64Key converts an integer key to int64. Keys must be positive.
func int64Key(key any) (int64, error) {
	var id int64
	switch k := key.(type) {
	case int64:
		id = k
	case int:
		id = int64(k)
	case int32:
		id = int64(k)
	default:
		return 0, types.ErrInvalidID
	}
	if id <= 0 {
		return 0, types.ErrInvalidID
	}
	return id, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func parseOptionalTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// collectRows scans every row with scan and returns the records in order.
// The result is an empty slice, not nil, when no rows match.
func collectRows(rows *sql.Rows, scan func(scanner) (any, error)) ([]any, error) {
	defer rows.Close()
	results := []any{}
	for rows.Next() {
		rec, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating rows", err)
	}
	return results, nil
}

// execDelete runs a delete statement; deleting an absent key is not an error.
func execDelete(q queryer, action, stmt string, key any) error {
	if _, err := q.Exec(stmt, key); err != nil {
		return storageError(action, err)
	}
	return nil
}
