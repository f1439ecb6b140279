package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/census/pkg/types"
)

const villageColumns = "id, name, notes, created_at, updated_at"

// villagesTable implements Collection for *types.Village.
type villagesTable struct {
	q queryer
}

func (t *villagesTable) Add(record any) (int64, error) {
	v, ok := record.(*types.Village)
	if !ok || v.ID != 0 {
		return 0, types.ErrInvalidData
	}
	res, err := t.q.Exec(
		"INSERT INTO villages (name, notes, created_at, updated_at) VALUES (?, ?, ?, ?)",
		v.Name, v.Notes, formatTime(v.CreatedAt), formatOptionalTime(v.UpdatedAt),
	)
	if err != nil {
		return 0, storageError("inserting village", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageError("reading village id", err)
	}
	v.ID = id
	return id, nil
}

func (t *villagesTable) Get(key any) (any, error) {
	id, err := int64Key(key)
	if err != nil {
		return nil, err
	}
	row := t.q.QueryRow("SELECT "+villageColumns+" FROM villages WHERE id = ?", id)
	v, err := scanVillage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (t *villagesTable) GetAll() ([]any, error) {
	rows, err := t.q.Query("SELECT " + villageColumns + " FROM villages ORDER BY id")
	if err != nil {
		return nil, storageError("querying villages", err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanVillage(s) })
}

// GetByIndex always fails: villages carry no secondary index.
func (t *villagesTable) GetByIndex(index string, value any) ([]any, error) {
	return nil, types.ErrIndexNotFound
}

func (t *villagesTable) Put(record any) error {
	v, ok := record.(*types.Village)
	if !ok {
		return types.ErrInvalidData
	}
	if v.ID <= 0 {
		return types.ErrInvalidID
	}
	_, err := t.q.Exec(`
		INSERT INTO villages (id, name, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			notes = excluded.notes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		v.ID, v.Name, v.Notes, formatTime(v.CreatedAt), formatOptionalTime(v.UpdatedAt),
	)
	if err != nil {
		return storageError("upserting village", err)
	}
	return nil
}

func (t *villagesTable) Delete(key any) error {
	id, err := int64Key(key)
	if err != nil {
		return err
	}
	return execDelete(t.q, "deleting village", "DELETE FROM villages WHERE id = ?", id)
}

func (t *villagesTable) Clear() error {
	if _, err := t.q.Exec("DELETE FROM villages"); err != nil {
		return storageError("clearing villages", err)
	}
	return nil
}

func scanVillage(s scanner) (*types.Village, error) {
	var v types.Village
	var createdAt string
	var updatedAt sql.NullString
	if err := s.Scan(&v.ID, &v.Name, &v.Notes, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storageError("scanning village", err)
	}
	var err error
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing village created_at: %w", err)
	}
	if v.UpdatedAt, err = parseOptionalTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing village updated_at: %w", err)
	}
	return &v, nil
}
