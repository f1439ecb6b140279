package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/census/pkg/types"
)

const memberColumns = `id, house_id, family_id, full_name, father_name, dob, age,
	gender, marital_status, education, occupation, mobile, disability, caste,
	voter_id, aadhaar_verified, aadhaar_last4, notes, created_at, updated_at`

// membersTable implements Collection for *types.Member.
// Indexes: houseId, familyId, gender, caste.
type membersTable struct {
	q queryer
}

func (t *membersTable) Add(record any) (int64, error) {
	m, ok := record.(*types.Member)
	if !ok || m.ID != 0 {
		return 0, types.ErrInvalidData
	}
	res, err := t.q.Exec(`
		INSERT INTO members (house_id, family_id, full_name, father_name, dob, age,
			gender, marital_status, education, occupation, mobile, disability, caste,
			voter_id, aadhaar_verified, aadhaar_last4, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		memberArgs(m)...,
	)
	if err != nil {
		return 0, storageError("inserting member", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageError("reading member id", err)
	}
	m.ID = id
	return id, nil
}

func (t *membersTable) Get(key any) (any, error) {
	id, err := int64Key(key)
	if err != nil {
		return nil, err
	}
	row := t.q.QueryRow("SELECT "+memberColumns+" FROM members WHERE id = ?", id)
	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (t *membersTable) GetAll() ([]any, error) {
	rows, err := t.q.Query("SELECT " + memberColumns + " FROM members ORDER BY id")
	if err != nil {
		return nil, storageError("querying members", err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanMember(s) })
}

// memberIndexColumns maps index names to columns. houseId is the only
// integer-valued index.
var memberIndexColumns = map[string]string{
	types.IndexHouseID:  "house_id",
	types.IndexFamilyID: "family_id",
	types.IndexGender:   "gender",
	types.IndexCaste:    "caste",
}

func (t *membersTable) GetByIndex(index string, value any) ([]any, error) {
	column, ok := memberIndexColumns[index]
	if !ok {
		return nil, types.ErrIndexNotFound
	}
	var arg any
	if index == types.IndexHouseID {
		id, err := int64Key(value)
		if err != nil {
			return nil, err
		}
		arg = id
	} else {
		s, ok := value.(string)
		if !ok {
			return nil, types.ErrInvalidData
		}
		arg = s
	}
	rows, err := t.q.Query("SELECT "+memberColumns+" FROM members WHERE "+column+" = ? ORDER BY id", arg)
	if err != nil {
		return nil, storageError("querying members by "+index, err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanMember(s) })
}

func (t *membersTable) Put(record any) error {
	m, ok := record.(*types.Member)
	if !ok {
		return types.ErrInvalidData
	}
	if m.ID <= 0 {
		return types.ErrInvalidID
	}
	args := append([]any{m.ID}, memberArgs(m)...)
	_, err := t.q.Exec(`
		INSERT INTO members (id, house_id, family_id, full_name, father_name, dob, age,
			gender, marital_status, education, occupation, mobile, disability, caste,
			voter_id, aadhaar_verified, aadhaar_last4, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			house_id = excluded.house_id,
			family_id = excluded.family_id,
			full_name = excluded.full_name,
			father_name = excluded.father_name,
			dob = excluded.dob,
			age = excluded.age,
			gender = excluded.gender,
			marital_status = excluded.marital_status,
			education = excluded.education,
			occupation = excluded.occupation,
			mobile = excluded.mobile,
			disability = excluded.disability,
			caste = excluded.caste,
			voter_id = excluded.voter_id,
			aadhaar_verified = excluded.aadhaar_verified,
			aadhaar_last4 = excluded.aadhaar_last4,
			notes = excluded.notes,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		args...,
	)
	if err != nil {
		return storageError("upserting member", err)
	}
	return nil
}

func (t *membersTable) Delete(key any) error {
	id, err := int64Key(key)
	if err != nil {
		return err
	}
	return execDelete(t.q, "deleting member", "DELETE FROM members WHERE id = ?", id)
}

func (t *membersTable) Clear() error {
	if _, err := t.q.Exec("DELETE FROM members"); err != nil {
		return storageError("clearing members", err)
	}
	return nil
}

// memberArgs returns the column values after id, in memberColumns order.
func memberArgs(m *types.Member) []any {
	return []any{
		m.HouseID, m.FamilyID, m.FullName, m.FatherName, m.DOB, m.Age,
		m.Gender, m.MaritalStatus, m.Education, m.Occupation, m.Mobile, m.Disability, m.Caste,
		m.VoterID, m.AadhaarVerified, m.AadhaarLast4, m.Notes,
		formatTime(m.CreatedAt), formatOptionalTime(m.UpdatedAt),
	}
}

func scanMember(s scanner) (*types.Member, error) {
	var m types.Member
	var createdAt string
	var updatedAt sql.NullString
	err := s.Scan(&m.ID, &m.HouseID, &m.FamilyID, &m.FullName, &m.FatherName, &m.DOB, &m.Age,
		&m.Gender, &m.MaritalStatus, &m.Education, &m.Occupation, &m.Mobile, &m.Disability, &m.Caste,
		&m.VoterID, &m.AadhaarVerified, &m.AadhaarLast4, &m.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storageError("scanning member", err)
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing member created_at: %w", err)
	}
	if m.UpdatedAt, err = parseOptionalTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing member updated_at: %w", err)
	}
	return &m, nil
}
