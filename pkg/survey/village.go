package survey

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// VillageInput holds the caller-supplied fields of a Village.
type VillageInput struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

func (in VillageInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return types.Validationf("village name is required")
	}
	return nil
}

// AddVillage creates a village and returns its id.
func (r *Repository) AddVillage(in VillageInput) (id int64, err error) {
	defer func(start time.Time) { r.observe("village.add", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		id, err = r.addVillage(c, in)
		return err
	})
	return id, err
}

func (r *Repository) addVillage(c collections, in VillageInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	villages, err := collection(c, types.VillagesCollection)
	if err != nil {
		return 0, err
	}
	v := &types.Village{
		Name:      strings.TrimSpace(in.Name),
		Notes:     in.Notes,
		CreatedAt: r.timestamp(),
	}
	id, err := villages.Add(v)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("village added", "id", id, "name", v.Name)
	return id, nil
}

// GetVillage returns the village with the given id.
func (r *Repository) GetVillage(id int64) (*types.Village, error) {
	v, err := getRecord[types.Village](r.store, types.VillagesCollection, id)
	if err != nil {
		return nil, wrapMissing(err, "village", id)
	}
	return v, nil
}

// ListVillages returns every village in creation order.
func (r *Repository) ListVillages() ([]*types.Village, error) {
	return listRecords[types.Village](r.store, types.VillagesCollection)
}

// UpdateVillage replaces the name and notes of a village.
func (r *Repository) UpdateVillage(id int64, in VillageInput) (v *types.Village, err error) {
	defer func(start time.Time) { r.observe("village.update", start, err) }(time.Now())

	if err = in.validate(); err != nil {
		return nil, err
	}
	err = r.update(func(c collections) error {
		v, err = getRecord[types.Village](c, types.VillagesCollection, id)
		if err != nil {
			return wrapMissing(err, "village", id)
		}
		now := r.timestamp()
		v.Name = strings.TrimSpace(in.Name)
		v.Notes = in.Notes
		v.UpdatedAt = &now

		villages, err := collection(c, types.VillagesCollection)
		if err != nil {
			return err
		}
		return villages.Put(v)
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// DeleteVillage removes a village together with its houses, their members
// and the members' Aadhaar images. Deleting an absent village succeeds with
// a zero result.
func (r *Repository) DeleteVillage(id int64) (res CascadeResult, err error) {
	defer func(start time.Time) { r.observe("village.delete", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		res, err = r.deleteVillage(c, id)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}
	if res.Villages > 0 {
		r.logger.Info("village deleted", "id", id,
			"houses", res.Houses, "members", res.Members, "images", res.Images)
	}
	return res, nil
}

func (r *Repository) deleteVillage(c collections, id int64) (CascadeResult, error) {
	var res CascadeResult
	if id <= 0 {
		return res, nil
	}

	villages, err := collection(c, types.VillagesCollection)
	if err != nil {
		return res, err
	}
	if _, err := villages.Get(id); err != nil {
		if isMissing(err) {
			return res, nil
		}
		return res, err
	}

	houses, err := indexRecords[types.House](c, types.HousesCollection, types.IndexVillageID, id)
	if err != nil {
		return res, &types.StepError{Op: "list", Collection: types.HousesCollection, Key: id, Err: err}
	}
	for _, h := range houses {
		sub, err := r.deleteHouse(c, h.ID)
		if err != nil {
			return res, err
		}
		res.add(sub)
	}

	if err := villages.Delete(id); err != nil {
		return res, &types.StepError{Op: "delete", Collection: types.VillagesCollection, Key: id, Err: err}
	}
	res.Villages++
	return res, nil
}
