package query

import (
	"strings"

	"github.com/mesh-intelligence/census/pkg/types"
)

// Result is a member matched by SearchMembers together with its house and
// village. Village is nil if the house's village cannot be found.
type Result struct {
	Member  *types.Member  `json:"member"`
	House   *types.House   `json:"house"`
	Village *types.Village `json:"village,omitempty"`
}

// SearchMembers matches q against each member. Name, father's name, caste
// and familyId match case-insensitively; mobile and the house number match
// as raw substrings. Members whose house is missing are skipped. Each
// member appears at most once, in creation order.
func (e *Engine) SearchMembers(q string) ([]Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, types.Validationf("search query is required")
	}

	members, err := e.src.ListMembers()
	if err != nil {
		return nil, err
	}
	houses, err := e.src.ListHouses()
	if err != nil {
		return nil, err
	}
	villages, err := e.src.ListVillages()
	if err != nil {
		return nil, err
	}

	houseByID := make(map[int64]*types.House, len(houses))
	for _, h := range houses {
		houseByID[h.ID] = h
	}
	villageByID := make(map[int64]*types.Village, len(villages))
	for _, v := range villages {
		villageByID[v.ID] = v
	}

	lower := strings.ToLower(q)
	results := []Result{}
	for _, m := range members {
		h, ok := houseByID[m.HouseID]
		if !ok {
			continue
		}
		if matchesSearch(m, h, q, lower) {
			results = append(results, Result{Member: m, House: h, Village: villageByID[h.VillageID]})
		}
	}
	return results, nil
}

func matchesSearch(m *types.Member, h *types.House, q, lower string) bool {
	for _, field := range []string{m.FullName, m.FatherName, m.Caste, m.FamilyID} {
		if strings.Contains(strings.ToLower(field), lower) {
			return true
		}
	}
	return strings.Contains(m.Mobile, q) || strings.Contains(h.HouseNumber, q)
}
