package survey

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// HouseInput holds the fields supplied when a house is created.
type HouseInput struct {
	VillageID     int64  `json:"villageId"`
	HouseNumber   string `json:"houseNumber"`
	HeadName      string `json:"headName"`
	HeadMobile    string `json:"headMobile"`
	CasteCategory string `json:"casteCategory"`
	HouseType     string `json:"houseType"`
	Toilet        bool   `json:"toilet"`
	DrinkingWater string `json:"drinkingWater"`
	Electricity   bool   `json:"electricity"`
	Notes         string `json:"notes"`
}

// HouseUpdate holds the mutable fields of a house. The village and house
// number are fixed at creation.
type HouseUpdate struct {
	HeadName      string `json:"headName"`
	HeadMobile    string `json:"headMobile"`
	CasteCategory string `json:"casteCategory"`
	HouseType     string `json:"houseType"`
	Toilet        bool   `json:"toilet"`
	DrinkingWater string `json:"drinkingWater"`
	Electricity   bool   `json:"electricity"`
	Notes         string `json:"notes"`
}

func (in HouseInput) validate() error {
	var missing []string
	if in.VillageID <= 0 {
		missing = append(missing, "villageId")
	}
	if strings.TrimSpace(in.HouseNumber) == "" {
		missing = append(missing, "houseNumber")
	}
	if strings.TrimSpace(in.HeadName) == "" {
		missing = append(missing, "headName")
	}
	if len(missing) > 0 {
		return types.Validationf("house requires %s", strings.Join(missing, ", "))
	}
	return nil
}

// AddHouse creates a house in an existing village and returns its id. The
// house receives a new familyId. A house number already used in the same
// village is rejected with ErrDuplicate.
func (r *Repository) AddHouse(in HouseInput) (id int64, err error) {
	defer func(start time.Time) { r.observe("house.add", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		id, err = r.addHouse(c, in)
		return err
	})
	return id, err
}

func (r *Repository) addHouse(c collections, in HouseInput) (int64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	if _, err := getRecord[types.Village](c, types.VillagesCollection, in.VillageID); err != nil {
		return 0, wrapMissing(err, "village", in.VillageID)
	}

	number := strings.TrimSpace(in.HouseNumber)
	same, err := indexRecords[types.House](c, types.HousesCollection, types.IndexHouseNumber, number)
	if err != nil {
		return 0, err
	}
	for _, h := range same {
		if h.VillageID == in.VillageID {
			return 0, duplicateHouse(number, in.VillageID)
		}
	}

	houses, err := collection(c, types.HousesCollection)
	if err != nil {
		return 0, err
	}
	h := &types.House{
		VillageID:     in.VillageID,
		HouseNumber:   number,
		FamilyID:      r.newFamilyID(),
		HeadName:      strings.TrimSpace(in.HeadName),
		HeadMobile:    in.HeadMobile,
		CasteCategory: in.CasteCategory,
		HouseType:     in.HouseType,
		Toilet:        in.Toilet,
		DrinkingWater: in.DrinkingWater,
		Electricity:   in.Electricity,
		Notes:         in.Notes,
		CreatedAt:     r.timestamp(),
	}
	id, err := houses.Add(h)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("house added", "id", id, "village", h.VillageID, "number", h.HouseNumber)
	return id, nil
}

// GetHouse returns the house with the given id.
func (r *Repository) GetHouse(id int64) (*types.House, error) {
	h, err := getRecord[types.House](r.store, types.HousesCollection, id)
	if err != nil {
		return nil, wrapMissing(err, "house", id)
	}
	return h, nil
}

// ListHouses returns every house in creation order.
func (r *Repository) ListHouses() ([]*types.House, error) {
	return listRecords[types.House](r.store, types.HousesCollection)
}

// HousesByVillage returns the houses of a village in creation order.
func (r *Repository) HousesByVillage(villageID int64) ([]*types.House, error) {
	return indexRecords[types.House](r.store, types.HousesCollection, types.IndexVillageID, villageID)
}

// UpdateHouse replaces the mutable fields of a house. A blank HeadName
// keeps the stored head name.
func (r *Repository) UpdateHouse(id int64, in HouseUpdate) (h *types.House, err error) {
	defer func(start time.Time) { r.observe("house.update", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		h, err = getRecord[types.House](c, types.HousesCollection, id)
		if err != nil {
			return wrapMissing(err, "house", id)
		}
		now := r.timestamp()
		if head := strings.TrimSpace(in.HeadName); head != "" {
			h.HeadName = head
		}
		h.HeadMobile = in.HeadMobile
		h.CasteCategory = in.CasteCategory
		h.HouseType = in.HouseType
		h.Toilet = in.Toilet
		h.DrinkingWater = in.DrinkingWater
		h.Electricity = in.Electricity
		h.Notes = in.Notes
		h.UpdatedAt = &now

		houses, err := collection(c, types.HousesCollection)
		if err != nil {
			return err
		}
		return houses.Put(h)
	})
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHouse removes a house, its members and their Aadhaar images.
// Deleting an absent house succeeds with a zero result.
func (r *Repository) DeleteHouse(id int64) (res CascadeResult, err error) {
	defer func(start time.Time) { r.observe("house.delete", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		res, err = r.deleteHouse(c, id)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}
	if res.Houses > 0 {
		r.logger.Info("house deleted", "id", id, "members", res.Members, "images", res.Images)
	}
	return res, nil
}

func (r *Repository) deleteHouse(c collections, id int64) (CascadeResult, error) {
	var res CascadeResult
	if id <= 0 {
		return res, nil
	}

	houses, err := collection(c, types.HousesCollection)
	if err != nil {
		return res, err
	}
	if _, err := houses.Get(id); err != nil {
		if isMissing(err) {
			return res, nil
		}
		return res, err
	}

	members, err := indexRecords[types.Member](c, types.MembersCollection, types.IndexHouseID, id)
	if err != nil {
		return res, &types.StepError{Op: "list", Collection: types.MembersCollection, Key: id, Err: err}
	}
	for _, m := range members {
		sub, err := r.deleteMember(c, m.ID)
		if err != nil {
			return res, err
		}
		res.add(sub)
	}

	if err := houses.Delete(id); err != nil {
		return res, &types.StepError{Op: "delete", Collection: types.HousesCollection, Key: id, Err: err}
	}
	res.Houses++
	return res, nil
}

func duplicateHouse(number string, villageID int64) error {
	return fmt.Errorf("house number %q in village %d: %w", number, villageID, types.ErrDuplicate)
}
