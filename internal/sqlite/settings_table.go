package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/census/pkg/types"
)

// settingsTable implements Collection for *types.Setting, keyed by
// Setting.Key. Values are stored as JSON text.
type settingsTable struct {
	q queryer
}

func (t *settingsTable) Add(record any) (int64, error) {
	return 0, types.ErrNotAutoIncrement
}

func (t *settingsTable) Get(key any) (any, error) {
	k, ok := key.(string)
	if !ok || k == "" {
		return nil, types.ErrInvalidID
	}
	s, err := scanSetting(t.q.QueryRow("SELECT key, value FROM settings WHERE key = ?", k))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (t *settingsTable) GetAll() ([]any, error) {
	rows, err := t.q.Query("SELECT key, value FROM settings ORDER BY key")
	if err != nil {
		return nil, storageError("querying settings", err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanSetting(s) })
}

// GetByIndex always fails: settings carry no secondary index.
func (t *settingsTable) GetByIndex(index string, value any) ([]any, error) {
	return nil, types.ErrIndexNotFound
}

func (t *settingsTable) Put(record any) error {
	s, ok := record.(*types.Setting)
	if !ok {
		return types.ErrInvalidData
	}
	if s.Key == "" {
		return types.ErrInvalidID
	}
	value, err := json.Marshal(s.Value)
	if err != nil {
		return fmt.Errorf("%w: encoding setting %s: %v", types.ErrInvalidData, s.Key, err)
	}
	_, err = t.q.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		s.Key, string(value),
	)
	if err != nil {
		return storageError("upserting setting", err)
	}
	return nil
}

func (t *settingsTable) Delete(key any) error {
	k, ok := key.(string)
	if !ok || k == "" {
		return types.ErrInvalidID
	}
	return execDelete(t.q, "deleting setting", "DELETE FROM settings WHERE key = ?", k)
}

func (t *settingsTable) Clear() error {
	if _, err := t.q.Exec("DELETE FROM settings"); err != nil {
		return storageError("clearing settings", err)
	}
	return nil
}

func scanSetting(s scanner) (*types.Setting, error) {
	var st types.Setting
	var value string
	if err := s.Scan(&st.Key, &value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storageError("scanning setting", err)
	}
	if err := json.Unmarshal([]byte(value), &st.Value); err != nil {
		return nil, fmt.Errorf("parsing setting %s: %w", st.Key, err)
	}
	return &st, nil
}
