package query

import (
	"github.com/mesh-intelligence/census/pkg/types"
)

// Criteria selects members. Zero-valued fields impose no constraint; every
// set field must match.
type Criteria struct {
	AgeMin     *int   `json:"ageMin,omitempty"`
	AgeMax     *int   `json:"ageMax,omitempty"`
	Gender     string `json:"gender,omitempty"`
	Caste      string `json:"caste,omitempty"`
	Education  string `json:"education,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Disability *bool  `json:"disability,omitempty"`
	VoterID    *bool  `json:"voterId,omitempty"`
	VillageID  int64  `json:"village,omitempty"`
}

// Int returns a pointer to n, for Criteria.AgeMin and AgeMax.
func Int(n int) *int { return &n }

// Bool returns a pointer to b, for Criteria.Disability and VoterID.
func Bool(b bool) *bool { return &b }

// FilterMembers returns the members matching c in creation order. String
// criteria match exactly.
func (e *Engine) FilterMembers(c Criteria) ([]*types.Member, error) {
	members, err := e.src.ListMembers()
	if err != nil {
		return nil, err
	}

	var inVillage map[int64]bool
	if c.VillageID != 0 {
		houses, err := e.src.HousesByVillage(c.VillageID)
		if err != nil {
			return nil, err
		}
		inVillage = make(map[int64]bool, len(houses))
		for _, h := range houses {
			inVillage[h.ID] = true
		}
	}

	out := []*types.Member{}
	for _, m := range members {
		if c.matches(m) && (inVillage == nil || inVillage[m.HouseID]) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (c Criteria) matches(m *types.Member) bool {
	switch {
	case c.AgeMin != nil && m.Age < *c.AgeMin:
		return false
	case c.AgeMax != nil && m.Age > *c.AgeMax:
		return false
	case c.Gender != "" && m.Gender != c.Gender:
		return false
	case c.Caste != "" && m.Caste != c.Caste:
		return false
	case c.Education != "" && m.Education != c.Education:
		return false
	case c.Occupation != "" && m.Occupation != c.Occupation:
		return false
	case c.Disability != nil && m.Disability != *c.Disability:
		return false
	case c.VoterID != nil && m.VoterID != *c.VoterID:
		return false
	}
	return true
}

// NewVotersRequired returns the members at or above threshold years who
// have no voter ID.
func (e *Engine) NewVotersRequired(threshold int) ([]*types.Member, error) {
	members, err := e.src.ListMembers()
	if err != nil {
		return nil, err
	}
	out := []*types.Member{}
	for _, m := range members {
		if m.NeedsVoterRegistration(threshold) {
			out = append(out, m)
		}
	}
	return out, nil
}
