package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/census/pkg/types"
)

const houseColumns = `id, village_id, house_number, family_id, head_name, head_mobile,
	caste_category, house_type, toilet, drinking_water, electricity, notes,
	created_at, updated_at`

// housesTable implements Collection for *types.House.
// Indexes: villageId, houseNumber.
type housesTable struct {
	q queryer
}

func (t *housesTable) Add(record any) (int64, error) {
	h, ok := record.(*types.House)
	if !ok || h.ID != 0 {
		return 0, types.ErrInvalidData
	}
	res, err := t.q.Exec(`
		INSERT INTO houses (village_id, house_number, family_id, head_name, head_mobile,
			caste_category, house_type, toilet, drinking_water, electricity, notes,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.VillageID, h.HouseNumber, h.FamilyID, h.HeadName, h.HeadMobile,
		h.CasteCategory, h.HouseType, h.Toilet, h.DrinkingWater, h.Electricity, h.Notes,
		formatTime(h.CreatedAt), formatOptionalTime(h.UpdatedAt),
	)
	if err != nil {
		return 0, storageError("inserting house", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageError("reading house id", err)
	}
	h.ID = id
	return id, nil
}

func (t *housesTable) Get(key any) (any, error) {
	id, err := int64Key(key)
	if err != nil {
		return nil, err
	}
	row := t.q.QueryRow("SELECT "+houseColumns+" FROM houses WHERE id = ?", id)
	h, err := scanHouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (t *housesTable) GetAll() ([]any, error) {
	rows, err := t.q.Query("SELECT " + houseColumns + " FROM houses ORDER BY id")
	if err != nil {
		return nil, storageError("querying houses", err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanHouse(s) })
}

func (t *housesTable) GetByIndex(index string, value any) ([]any, error) {
	var column string
	var arg any
	switch index {
	case types.IndexVillageID:
		id, err := int64Key(value)
		if err != nil {
			return nil, err
		}
		column, arg = "village_id", id
	case types.IndexHouseNumber:
		s, ok := value.(string)
		if !ok {
			return nil, types.ErrInvalidData
		}
		column, arg = "house_number", s
	default:
		return nil, types.ErrIndexNotFound
	}
	rows, err := t.q.Query("SELECT "+houseColumns+" FROM houses WHERE "+column+" = ? ORDER BY id", arg)
	if err != nil {
		return nil, storageError("querying houses by "+index, err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanHouse(s) })
}

func (t *housesTable) Put(record any) error {
	h, ok := record.(*types.House)
	if !ok {
		return types.ErrInvalidData
	}
	if h.ID <= 0 {
		return types.ErrInvalidID
	}
	_, err := t.q.Exec(`
		INSERT INTO houses (id, village_id, house_number, family_id, head_name, head_mobile,
			caste_category, house_type, toilet, drinking_water, electricity, notes,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			village_id = excluded.village_id,
			house_number = excluded.house_number,
			family_id = excluded.family_id,
			head_name = excluded.head_name,
			head_mobile = excluded.head_mobile,
			caste_category = excluded.caste_category,
			house_type = excluded.house_type,
			toilet = excluded.toilet,
			drinking_water = excluded.drinking_water,
			electricity = excluded.electricity,
			notes = excluded.notes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		h.ID, h.VillageID, h.HouseNumber, h.FamilyID, h.HeadName, h.HeadMobile,
		h.CasteCategory, h.HouseType, h.Toilet, h.DrinkingWater, h.Electricity, h.Notes,
		formatTime(h.CreatedAt), formatOptionalTime(h.UpdatedAt),
	)
	if err != nil {
		return storageError("upserting house", err)
	}
	return nil
}

func (t *housesTable) Delete(key any) error {
	id, err := int64Key(key)
	if err != nil {
		return err
	}
	return execDelete(t.q, "deleting house", "DELETE FROM houses WHERE id = ?", id)
}

func (t *housesTable) Clear() error {
	if _, err := t.q.Exec("DELETE FROM houses"); err != nil {
		return storageError("clearing houses", err)
	}
	return nil
}

func scanHouse(s scanner) (*types.House, error) {
	var h types.House
	var createdAt string
	var updatedAt sql.NullString
	err := s.Scan(&h.ID, &h.VillageID, &h.HouseNumber, &h.FamilyID, &h.HeadName, &h.HeadMobile,
		&h.CasteCategory, &h.HouseType, &h.Toilet, &h.DrinkingWater, &h.Electricity, &h.Notes,
		&createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storageError("scanning house", err)
	}
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing house created_at: %w", err)
	}
	if h.UpdatedAt, err = parseOptionalTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing house updated_at: %w", err)
	}
	return &h, nil
}
