package query

import "github.com/mesh-intelligence/census/pkg/types"

// Summary holds dataset-wide counts. Families equals Houses: each house is
// one family.
type Summary struct {
	Villages          int            `json:"villages"`
	Houses            int            `json:"houses"`
	Families          int            `json:"families"`
	Members           int            `json:"members"`
	ByGender          map[string]int `json:"byGender"`
	ByCaste           map[string]int `json:"byCaste"`
	NewVotersRequired int            `json:"newVotersRequired"`
	Disability        int            `json:"disability"`
	VoterAge          int            `json:"voterAge"`
}

// Summary counts villages, houses and members, with members broken down by
// gender and caste category. Members needing voter registration are
// counted against voterAge.
func (e *Engine) Summary(voterAge int) (*Summary, error) {
	villages, err := e.src.ListVillages()
	if err != nil {
		return nil, err
	}
	houses, err := e.src.ListHouses()
	if err != nil {
		return nil, err
	}
	members, err := e.src.ListMembers()
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Villages: len(villages),
		Houses:   len(houses),
		Families: len(houses),
		Members:  len(members),
		ByGender: map[string]int{
			types.GenderMale:   0,
			types.GenderFemale: 0,
			types.GenderOther:  0,
		},
		ByCaste: map[string]int{
			types.CasteSC:      0,
			types.CasteST:      0,
			types.CasteOBC:     0,
			types.CasteGeneral: 0,
			types.CasteOther:   0,
		},
		VoterAge: voterAge,
	}
	for _, m := range members {
		if _, ok := s.ByGender[m.Gender]; ok {
			s.ByGender[m.Gender]++
		}
		if _, ok := s.ByCaste[m.Caste]; ok {
			s.ByCaste[m.Caste]++
		}
		if m.NeedsVoterRegistration(voterAge) {
			s.NewVotersRequired++
		}
		if m.Disability {
			s.Disability++
		}
	}
	return s, nil
}
