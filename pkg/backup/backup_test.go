package backup

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/census/pkg/sqlite"
	"github.com/mesh-intelligence/census/pkg/survey"
	"github.com/mesh-intelligence/census/pkg/types"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func setupService(t *testing.T) (*Service, *survey.Repository) {
	t.Helper()
	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { store.Detach() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	seq := 0
	repo := survey.New(store,
		survey.WithClock(func() time.Time { return now }),
		survey.WithFamilyIDGenerator(func() string {
			seq++
			return fmt.Sprintf("FAM-%03d", seq)
		}),
		survey.WithLogger(logger),
	)
	return New(repo, WithLogger(logger)), repo
}

// seed creates two villages with houses, members, an image and a setting.
// A deleted village first advances the id sequence so imported ids differ
// from exported ones.
func seed(t *testing.T, repo *survey.Repository) {
	t.Helper()
	scratch, err := repo.AddVillage(survey.VillageInput{Name: "Scratch"})
	require.NoError(t, err)
	_, err = repo.DeleteVillage(scratch)
	require.NoError(t, err)

	for _, name := range []string{"Rampur", "Sitapur"} {
		v, err := repo.AddVillage(survey.VillageInput{Name: name, Notes: name + " notes"})
		require.NoError(t, err)
		for _, number := range []string{"1", "2"} {
			h, err := repo.AddHouse(survey.HouseInput{
				VillageID: v, HouseNumber: number, HeadName: name + " head " + number, Toilet: true,
			})
			require.NoError(t, err)
			m, err := repo.AddMember(survey.MemberInput{
				HouseID: h, FullName: name + " member " + number, FatherName: "F",
				DOB: "1990-05-05", Gender: types.GenderFemale, Mobile: "98765",
			})
			require.NoError(t, err)
			require.NoError(t, repo.StoreAadhaarImage(m, []byte("scan")))
		}
	}
	require.NoError(t, repo.SetVoterEligibilityAge(21))
}

func TestExport(t *testing.T) {
	svc, repo := setupService(t)
	seed(t, repo)

	snap, err := svc.Export()
	require.NoError(t, err)
	assert.Equal(t, Version, snap.Version)
	assert.Len(t, snap.Villages, 2)
	assert.Len(t, snap.Houses, 4)
	assert.Len(t, snap.Members, 4)
	require.Len(t, snap.Settings, 1)
	assert.Equal(t, types.SettingVoterEligibilityAge, snap.Settings[0].Key)
	assert.False(t, snap.ExportedAt.IsZero())
}

func TestExportWipeImport_RoundTrip(t *testing.T) {
	svc, repo := setupService(t)
	seed(t, repo)

	snap, err := svc.Export()
	require.NoError(t, err)
	require.NoError(t, svc.WipeAll())

	villages, err := repo.ListVillages()
	require.NoError(t, err)
	require.Empty(t, villages)

	res, err := svc.Import(snap)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Villages: 2, Houses: 4, Members: 4, Settings: 1}, res)

	villages, err = repo.ListVillages()
	require.NoError(t, err)
	houses, err := repo.ListHouses()
	require.NoError(t, err)
	members, err := repo.ListMembers()
	require.NoError(t, err)
	assert.Len(t, villages, len(snap.Villages))
	assert.Len(t, houses, len(snap.Houses))
	assert.Len(t, members, len(snap.Members))

	villageNames := map[int64]string{}
	for _, v := range villages {
		villageNames[v.ID] = v.Name
	}
	houseByID := map[int64]*types.House{}
	for _, h := range houses {
		houseByID[h.ID] = h
		assert.NotEmpty(t, villageNames[h.VillageID], "house %d must point at an imported village", h.ID)
	}
	for _, m := range members {
		h, ok := houseByID[m.HouseID]
		require.True(t, ok, "member %d must point at an imported house", m.ID)
		assert.Equal(t, h.FamilyID, m.FamilyID)
		assert.Contains(t, m.FullName, villageNames[h.VillageID])
		assert.Equal(t, 35, m.Age)
	}

	exported := map[string]bool{}
	for _, h := range snap.Houses {
		exported[h.FamilyID] = true
	}
	for _, h := range houses {
		assert.False(t, exported[h.FamilyID], "familyIds are regenerated")
	}

	age, err := repo.VoterEligibilityAge()
	require.NoError(t, err)
	assert.Equal(t, 21, age)
}

func TestImport_InvalidSnapshotLeavesStoreIntact(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		want   error
	}{
		{"orphan member", func(s *Snapshot) { s.Members[0].HouseID = 999 }, types.ErrValidation},
		{"orphan house", func(s *Snapshot) { s.Houses[0].VillageID = 999 }, types.ErrValidation},
		{"blank village name", func(s *Snapshot) { s.Villages[0].Name = " " }, types.ErrValidation},
		{"bad dob", func(s *Snapshot) { s.Members[0].DOB = "05/05/1990" }, types.ErrValidation},
		{"repeated house id", func(s *Snapshot) { s.Houses[1].ID = s.Houses[0].ID }, types.ErrValidation},
		{"newer version", func(s *Snapshot) { s.Version = Version + 1 }, types.ErrValidation},
		{"duplicate house number", func(s *Snapshot) {
			s.Houses[1].HouseNumber = s.Houses[0].HouseNumber
		}, types.ErrDuplicate},
		{"malformed aadhaar digits", func(s *Snapshot) {
			s.Members[len(s.Members)-1].AadhaarLast4 = "12a4"
		}, types.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := setupService(t)
			seed(t, repo)

			snap, err := svc.Export()
			require.NoError(t, err)
			tt.mutate(snap)

			_, err = svc.Import(snap)
			assert.ErrorIs(t, err, tt.want)

			members, err := repo.ListMembers()
			require.NoError(t, err)
			assert.Len(t, members, 4, "store must be untouched")
			img, err := repo.GetAadhaarImage(members[0].ID)
			require.NoError(t, err)
			assert.Equal(t, []byte("scan"), img.ImageData)
		})
	}
}

func TestValidate_NamesMemberWithBadAadhaarDigits(t *testing.T) {
	snap := sampleSnapshot()
	snap.Members[0].AadhaarLast4 = "123"

	err := Validate(snap)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.ErrorContains(t, err, "member 1")
}

func TestImport_FutureDOBStoredWithAgeZero(t *testing.T) {
	svc, repo := setupService(t)
	snap := sampleSnapshot()
	snap.Members[0].DOB = "2025-06-16"

	_, err := svc.Import(snap)
	require.NoError(t, err)

	members, err := repo.ListMembers()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, 0, members[0].Age)
}

func TestImport_NilSnapshot(t *testing.T) {
	svc, _ := setupService(t)
	_, err := svc.Import(nil)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestWipeAll(t *testing.T) {
	svc, repo := setupService(t)
	seed(t, repo)
	members, err := repo.ListMembers()
	require.NoError(t, err)

	require.NoError(t, svc.WipeAll())

	for _, list := range []func() (int, error){
		func() (int, error) { v, err := repo.ListVillages(); return len(v), err },
		func() (int, error) { h, err := repo.ListHouses(); return len(h), err },
		func() (int, error) { m, err := repo.ListMembers(); return len(m), err },
		func() (int, error) { s, err := repo.ListSettings(); return len(s), err },
	} {
		n, err := list()
		require.NoError(t, err)
		assert.Zero(t, n)
	}
	_, err = repo.GetAadhaarImage(members[0].ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	age, err := repo.VoterEligibilityAge()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultVoterEligibilityAge, age)
}
