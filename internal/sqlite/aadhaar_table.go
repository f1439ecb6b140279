package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/census/pkg/types"
)

// aadhaarTable implements Collection for *types.AadhaarImage, keyed by
// AadhaarImage.MemberID.
type aadhaarTable struct {
	q queryer
}

func (t *aadhaarTable) Add(record any) (int64, error) {
	return 0, types.ErrNotAutoIncrement
}

func (t *aadhaarTable) Get(key any) (any, error) {
	id, err := int64Key(key)
	if err != nil {
		return nil, err
	}
	img, err := scanAadhaar(t.q.QueryRow(
		"SELECT member_id, image_data, uploaded_at FROM aadhaar_images WHERE member_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (t *aadhaarTable) GetAll() ([]any, error) {
	rows, err := t.q.Query("SELECT member_id, image_data, uploaded_at FROM aadhaar_images ORDER BY member_id")
	if err != nil {
		return nil, storageError("querying aadhaar images", err)
	}
	return collectRows(rows, func(s scanner) (any, error) { return scanAadhaar(s) })
}

// GetByIndex always fails: images are only reachable by member ID.
func (t *aadhaarTable) GetByIndex(index string, value any) ([]any, error) {
	return nil, types.ErrIndexNotFound
}

func (t *aadhaarTable) Put(record any) error {
	img, ok := record.(*types.AadhaarImage)
	if !ok {
		return types.ErrInvalidData
	}
	if img.MemberID <= 0 {
		return types.ErrInvalidID
	}
	data := img.ImageData
	if data == nil {
		data = []byte{}
	}
	_, err := t.q.Exec(`
		INSERT INTO aadhaar_images (member_id, image_data, uploaded_at) VALUES (?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET
			image_data = excluded.image_data,
			uploaded_at = excluded.uploaded_at`,
		img.MemberID, data, formatTime(img.UploadedAt),
	)
	if err != nil {
		return storageError("upserting aadhaar image", err)
	}
	return nil
}

func (t *aadhaarTable) Delete(key any) error {
	id, err := int64Key(key)
	if err != nil {
		return err
	}
	return execDelete(t.q, "deleting aadhaar image", "DELETE FROM aadhaar_images WHERE member_id = ?", id)
}

func (t *aadhaarTable) Clear() error {
	if _, err := t.q.Exec("DELETE FROM aadhaar_images"); err != nil {
		return storageError("clearing aadhaar images", err)
	}
	return nil
}

func scanAadhaar(s scanner) (*types.AadhaarImage, error) {
	var img types.AadhaarImage
	var uploadedAt string
	if err := s.Scan(&img.MemberID, &img.ImageData, &uploadedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, storageError("scanning aadhaar image", err)
	}
	var err error
	if img.UploadedAt, err = parseTime(uploadedAt); err != nil {
		return nil, fmt.Errorf("parsing aadhaar uploaded_at: %w", err)
	}
	return &img, nil
}
