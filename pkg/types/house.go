package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// House is a surveyed household. It belongs to exactly one Village and owns
// zero or more Members.
//
// FamilyID is generated by the repository when the house is created and never
// changes afterwards. HouseNumber is unique within VillageID.
type House struct {
	ID            int64      `json:"id"`
	VillageID     int64      `json:"villageId"`
	HouseNumber   string     `json:"houseNumber"`
	FamilyID      string     `json:"familyId"`
	HeadName      string     `json:"headName"`
	HeadMobile    string     `json:"headMobile"`
	CasteCategory string     `json:"casteCategory"`
	HouseType     string     `json:"houseType"`
	Toilet        bool       `json:"toilet"`
	DrinkingWater string     `json:"drinkingWater"`
	Electricity   bool       `json:"electricity"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON decodes a House. houseNumber may be a JSON string or a JSON
// number; a number is kept in its literal form, so 912 becomes "912".
// Encoding always writes a string.
func (h *House) UnmarshalJSON(data []byte) error {
	type plain House
	aux := struct {
		*plain
		HouseNumber json.RawMessage `json:"houseNumber"`
	}{plain: (*plain)(h)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	raw := bytes.TrimSpace(aux.HouseNumber)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		h.HouseNumber = ""
	case raw[0] == '"':
		return json.Unmarshal(raw, &h.HouseNumber)
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("houseNumber: %w", err)
		}
		h.HouseNumber = n.String()
	}
	return nil
}
