// Package backup exports the survey dataset to a Snapshot and rebuilds the
// dataset from one. Snapshots are written to and read from JSON files,
// optionally encrypted with a passphrase.
package backup

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

// Version is the snapshot format written by Export.
const Version = 1

// Snapshot is a complete copy of the survey dataset. Aadhaar images are not
// included.
type Snapshot struct {
	Villages   []*types.Village `json:"villages"`
	Houses     []*types.House   `json:"houses"`
	Members    []*types.Member  `json:"members"`
	Settings   []*types.Setting `json:"settings,omitempty"`
	ExportedAt time.Time        `json:"exportedAt"`
	Version    int              `json:"version"`
}

// ImportResult counts the records created by Import.
type ImportResult struct {
	Villages int `json:"villages"`
	Houses   int `json:"houses"`
	Members  int `json:"members"`
	Settings int `json:"settings"`
}

// Service runs export, import and wipe against a repository.
type Service struct {
	repo   *survey.Repository
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New returns a Service over repo.
func New(repo *survey.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export reads villages, houses, members and settings in one transaction.
func (s *Service) Export() (*Snapshot, error) {
	snap := &Snapshot{Version: Version}
	err := s.repo.Batch(func(b *survey.Batch) error {
		var err error
		if snap.Villages, err = b.Villages(); err != nil {
			return err
		}
		if snap.Houses, err = b.Houses(); err != nil {
			return err
		}
		if snap.Members, err = b.Members(); err != nil {
			return err
		}
		snap.Settings, err = b.Settings()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("exporting snapshot: %w", err)
	}
	snap.ExportedAt = time.Now().UTC()
	return snap, nil
}

// Import replaces the whole dataset with the contents of snap. The snapshot
// is checked before anything is removed, and the replacement runs in one
// transaction, so a failed import leaves the store as it was. Records get
// new ids and houses get new familyIds; references between records are
// remapped accordingly.
func (s *Service) Import(snap *Snapshot) (ImportResult, error) {
	var res ImportResult
	if err := Validate(snap); err != nil {
		return res, err
	}

	err := s.repo.Batch(func(b *survey.Batch) error {
		res = ImportResult{}
		if err := b.ClearAll(); err != nil {
			return err
		}

		villageIDs := make(map[int64]int64, len(snap.Villages))
		for _, v := range snap.Villages {
			id, err := b.AddVillage(survey.VillageInput{Name: v.Name, Notes: v.Notes})
			if err != nil {
				return fmt.Errorf("importing village %d: %w", v.ID, err)
			}
			villageIDs[v.ID] = id
			res.Villages++
		}

		houseIDs := make(map[int64]int64, len(snap.Houses))
		for _, h := range snap.Houses {
			id, err := b.AddHouse(survey.HouseInput{
				VillageID:     villageIDs[h.VillageID],
				HouseNumber:   h.HouseNumber,
				HeadName:      h.HeadName,
				HeadMobile:    h.HeadMobile,
				CasteCategory: h.CasteCategory,
				HouseType:     h.HouseType,
				Toilet:        h.Toilet,
				DrinkingWater: h.DrinkingWater,
				Electricity:   h.Electricity,
				Notes:         h.Notes,
			})
			if err != nil {
				return fmt.Errorf("importing house %d: %w", h.ID, err)
			}
			houseIDs[h.ID] = id
			res.Houses++
		}

		for _, m := range snap.Members {
			_, err := b.AddMember(survey.MemberInput{
				HouseID:         houseIDs[m.HouseID],
				FullName:        m.FullName,
				FatherName:      m.FatherName,
				DOB:             m.DOB,
				Gender:          m.Gender,
				MaritalStatus:   m.MaritalStatus,
				Education:       m.Education,
				Occupation:      m.Occupation,
				Mobile:          m.Mobile,
				Disability:      m.Disability,
				Caste:           m.Caste,
				VoterID:         m.VoterID,
				AadhaarVerified: m.AadhaarVerified,
				AadhaarLast4:    m.AadhaarLast4,
				Notes:           m.Notes,
			})
			if err != nil {
				return fmt.Errorf("importing member %d: %w", m.ID, err)
			}
			res.Members++
		}

		for _, st := range snap.Settings {
			if err := b.SetSetting(st.Key, st.Value); err != nil {
				return fmt.Errorf("importing setting %s: %w", st.Key, err)
			}
			res.Settings++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	s.logger.Info("snapshot imported",
		"villages", res.Villages, "houses", res.Houses, "members", res.Members, "settings", res.Settings)
	return res, nil
}

// WipeAll removes every record, settings and Aadhaar images included.
func (s *Service) WipeAll() error {
	if err := s.repo.Batch(func(b *survey.Batch) error { return b.ClearAll() }); err != nil {
		return fmt.Errorf("wiping store: %w", err)
	}
	s.logger.Info("store wiped")
	return nil
}

// Validate checks that snap can be imported: a supported version, unique
// record ids, the fields every add-path requires, well-formed dob and
// aadhaarLast4 values, references to records in the same snapshot and house
// numbers unique per village.
func Validate(snap *Snapshot) error {
	if snap == nil {
		return types.Validationf("snapshot is empty")
	}
	if snap.Version > Version || snap.Version < 0 {
		return types.Validationf("unsupported snapshot version %d", snap.Version)
	}

	villages := make(map[int64]bool, len(snap.Villages))
	for i, v := range snap.Villages {
		switch {
		case v == nil:
			return types.Validationf("villages[%d] is null", i)
		case v.ID <= 0 || villages[v.ID]:
			return types.Validationf("villages[%d] has missing or repeated id %d", i, v.ID)
		case strings.TrimSpace(v.Name) == "":
			return types.Validationf("village %d has no name", v.ID)
		}
		villages[v.ID] = true
	}

	houses := make(map[int64]bool, len(snap.Houses))
	numbers := make(map[string]bool, len(snap.Houses))
	for i, h := range snap.Houses {
		switch {
		case h == nil:
			return types.Validationf("houses[%d] is null", i)
		case h.ID <= 0 || houses[h.ID]:
			return types.Validationf("houses[%d] has missing or repeated id %d", i, h.ID)
		case !villages[h.VillageID]:
			return types.Validationf("house %d references unknown village %d", h.ID, h.VillageID)
		case strings.TrimSpace(h.HouseNumber) == "" || strings.TrimSpace(h.HeadName) == "":
			return types.Validationf("house %d requires houseNumber and headName", h.ID)
		}
		key := fmt.Sprintf("%d/%s", h.VillageID, strings.TrimSpace(h.HouseNumber))
		if numbers[key] {
			return fmt.Errorf("house %d: number %q repeated in village %d: %w",
				h.ID, h.HouseNumber, h.VillageID, types.ErrDuplicate)
		}
		numbers[key] = true
		houses[h.ID] = true
	}

	members := make(map[int64]bool, len(snap.Members))
	for i, m := range snap.Members {
		switch {
		case m == nil:
			return types.Validationf("members[%d] is null", i)
		case m.ID <= 0 || members[m.ID]:
			return types.Validationf("members[%d] has missing or repeated id %d", i, m.ID)
		case !houses[m.HouseID]:
			return types.Validationf("member %d references unknown house %d", m.ID, m.HouseID)
		case strings.TrimSpace(m.FullName) == "" || strings.TrimSpace(m.FatherName) == "":
			return types.Validationf("member %d requires fullName and fatherName", m.ID)
		}
		if _, err := survey.ParseDOB(m.DOB); err != nil {
			return fmt.Errorf("member %d: %w", m.ID, err)
		}
		if !survey.ValidAadhaarLast4(m.AadhaarLast4) {
			return types.Validationf("member %d: aadhaarLast4 %q must be 4 digits", m.ID, m.AadhaarLast4)
		}
		members[m.ID] = true
	}

	for i, st := range snap.Settings {
		if st == nil || strings.TrimSpace(st.Key) == "" {
			return types.Validationf("settings[%d] has no key", i)
		}
	}
	return nil
}
