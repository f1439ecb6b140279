// Tests for the SQLite backend: lifecycle, identifiers, indexes and
// transactions.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/census/pkg/types"
)

// setupBackend attaches a Backend to a fresh temp directory and detaches it
// when the test ends.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func collection(t *testing.T, b *Backend, name string) types.Collection {
	t.Helper()
	c, err := b.Collection(name)
	require.NoError(t, err)
	return c
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	require.NoError(t, b.Attach(config))
	defer b.Detach()

	_, err := os.Stat(filepath.Join(tmpDir, DatabaseFile))
	assert.NoError(t, err, "census.db should be created")

	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: "postgres"}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

	villages := collection(t, b, types.VillagesCollection)

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Collection(types.VillagesCollection)
	assert.ErrorIs(t, err, types.ErrDetached)

	_, err = villages.GetAll()
	assert.ErrorIs(t, err, types.ErrDetached, "collections obtained before Detach stop working")

	err = b.Update(func(tx types.Tx) error { return nil })
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestBackend_DataSurvivesReattach(t *testing.T) {
	dir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))
	id, err := collection(t, b, types.VillagesCollection).Add(&types.Village{Name: "Rampur", CreatedAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	defer b2.Detach()

	got, err := collection(t, b2, types.VillagesCollection).Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Rampur", got.(*types.Village).Name)
}

func TestBackend_CollectionNotFound(t *testing.T) {
	b := setupBackend(t)
	_, err := b.Collection("households")
	assert.ErrorIs(t, err, types.ErrCollectionNotFound)
}

func TestCollection_IdentifiersNeverReused(t *testing.T) {
	b := setupBackend(t)
	villages := collection(t, b, types.VillagesCollection)

	first, err := villages.Add(&types.Village{Name: "A", CreatedAt: time.Now()})
	require.NoError(t, err)
	second, err := villages.Add(&types.Village{Name: "B", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	require.NoError(t, villages.Delete(second))
	third, err := villages.Add(&types.Village{Name: "C", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Greater(t, third, second, "deleted id must not be reused")

	require.NoError(t, villages.Clear())
	fourth, err := villages.Add(&types.Village{Name: "D", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Greater(t, fourth, third, "clear must not reset the sequence")
}

func TestCollection_AddSetsRecordID(t *testing.T) {
	b := setupBackend(t)
	v := &types.Village{Name: "Rampur", CreatedAt: time.Now()}
	id, err := collection(t, b, types.VillagesCollection).Add(v)
	require.NoError(t, err)
	assert.Equal(t, id, v.ID)

	_, err = collection(t, b, types.VillagesCollection).Add(v)
	assert.ErrorIs(t, err, types.ErrInvalidData, "a record that already has an id cannot be added")
}

func TestCollection_GetMissing(t *testing.T) {
	b := setupBackend(t)
	for _, name := range []string{types.VillagesCollection, types.HousesCollection, types.MembersCollection, types.AadhaarImagesCollection} {
		_, err := collection(t, b, name).Get(int64(42))
		assert.ErrorIs(t, err, types.ErrNotFound, name)
	}
	_, err := collection(t, b, types.SettingsCollection).Get("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCollection_InvalidKeys(t *testing.T) {
	b := setupBackend(t)
	houses := collection(t, b, types.HousesCollection)

	_, err := houses.Get("7")
	assert.ErrorIs(t, err, types.ErrInvalidID)
	_, err = houses.Get(0)
	assert.ErrorIs(t, err, types.ErrInvalidID)
	assert.ErrorIs(t, houses.Put(&types.Village{ID: 1}), types.ErrInvalidData)
	assert.ErrorIs(t, houses.Put(&types.House{}), types.ErrInvalidID)
}

func TestCollection_DeleteAbsentSucceeds(t *testing.T) {
	b := setupBackend(t)
	assert.NoError(t, collection(t, b, types.MembersCollection).Delete(int64(999)))
	assert.NoError(t, collection(t, b, types.SettingsCollection).Delete("nothing"))
}

func TestHouses_RoundTripAndIndexes(t *testing.T) {
	b := setupBackend(t)
	houses := collection(t, b, types.HousesCollection)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	h1 := &types.House{VillageID: 1, HouseNumber: "12", FamilyID: "FAM-a", HeadName: "Ravi",
		Toilet: true, Electricity: true, DrinkingWater: "Tap", CreatedAt: now}
	h2 := &types.House{VillageID: 2, HouseNumber: "12", FamilyID: "FAM-b", HeadName: "Sita", CreatedAt: now}
	h3 := &types.House{VillageID: 1, HouseNumber: "13", FamilyID: "FAM-c", HeadName: "Arjun", CreatedAt: now}
	for _, h := range []*types.House{h1, h2, h3} {
		_, err := houses.Add(h)
		require.NoError(t, err)
	}

	got, err := houses.Get(h1.ID)
	require.NoError(t, err)
	assert.Equal(t, h1, got.(*types.House))

	byVillage, err := houses.GetByIndex(types.IndexVillageID, int64(1))
	require.NoError(t, err)
	require.Len(t, byVillage, 2)
	assert.Equal(t, h1.ID, byVillage[0].(*types.House).ID)
	assert.Equal(t, h3.ID, byVillage[1].(*types.House).ID)

	byNumber, err := houses.GetByIndex(types.IndexHouseNumber, "12")
	require.NoError(t, err)
	assert.Len(t, byNumber, 2)

	_, err = houses.GetByIndex(types.IndexGender, "Male")
	assert.ErrorIs(t, err, types.ErrIndexNotFound)
}

func TestMembers_PutUpsertsAndIndexes(t *testing.T) {
	b := setupBackend(t)
	members := collection(t, b, types.MembersCollection)
	now := time.Now().UTC().Truncate(time.Second)

	m := &types.Member{HouseID: 3, FamilyID: "FAM-x", FullName: "Asha", FatherName: "Mohan",
		DOB: "1990-05-01", Age: 35, Gender: types.GenderFemale, Caste: types.CasteOBC, CreatedAt: now}
	_, err := members.Add(m)
	require.NoError(t, err)

	updated := now.Add(time.Hour)
	m.Occupation = "Teacher"
	m.VoterID = true
	m.UpdatedAt = &updated
	require.NoError(t, members.Put(m))

	got, err := members.Get(m.ID)
	require.NoError(t, err)
	gm := got.(*types.Member)
	assert.Equal(t, "Teacher", gm.Occupation)
	assert.True(t, gm.VoterID)
	require.NotNil(t, gm.UpdatedAt)
	assert.True(t, gm.UpdatedAt.Equal(updated))

	for index, value := range map[string]any{
		types.IndexHouseID:  int64(3),
		types.IndexFamilyID: "FAM-x",
		types.IndexGender:   types.GenderFemale,
		types.IndexCaste:    types.CasteOBC,
	} {
		found, err := members.GetByIndex(index, value)
		require.NoError(t, err, index)
		assert.Len(t, found, 1, index)
	}

	_, err = members.GetByIndex(types.IndexGender, 1)
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestSettings_JSONValues(t *testing.T) {
	b := setupBackend(t)
	settings := collection(t, b, types.SettingsCollection)

	_, err := settings.Add(&types.Setting{Key: "x"})
	assert.ErrorIs(t, err, types.ErrNotAutoIncrement)

	require.NoError(t, settings.Put(&types.Setting{Key: types.SettingVoterEligibilityAge, Value: 21}))
	got, err := settings.Get(types.SettingVoterEligibilityAge)
	require.NoError(t, err)
	assert.Equal(t, float64(21), got.(*types.Setting).Value)

	require.NoError(t, settings.Put(&types.Setting{Key: types.SettingVoterEligibilityAge, Value: 19}))
	all, err := settings.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAadhaarImages_KeyedByMember(t *testing.T) {
	b := setupBackend(t)
	images := collection(t, b, types.AadhaarImagesCollection)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, images.Put(&types.AadhaarImage{MemberID: 9, ImageData: []byte{0xff, 0xd8}, UploadedAt: at}))
	got, err := images.Get(int64(9))
	require.NoError(t, err)
	img := got.(*types.AadhaarImage)
	assert.Equal(t, []byte{0xff, 0xd8}, img.ImageData)
	assert.True(t, img.UploadedAt.Equal(at))

	require.NoError(t, images.Delete(9))
	_, err = images.Get(9)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdate_CommitsAllWrites(t *testing.T) {
	b := setupBackend(t)

	err := b.Update(func(tx types.Tx) error {
		villages, err := tx.Collection(types.VillagesCollection)
		if err != nil {
			return err
		}
		for _, name := range []string{"A", "B"} {
			if _, err := villages.Add(&types.Village{Name: name, CreatedAt: time.Now()}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	all, err := collection(t, b, types.VillagesCollection).GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	b := setupBackend(t)
	_, err := collection(t, b, types.VillagesCollection).Add(&types.Village{Name: "Keep", CreatedAt: time.Now()})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = b.Update(func(tx types.Tx) error {
		villages, err := tx.Collection(types.VillagesCollection)
		if err != nil {
			return err
		}
		if err := villages.Clear(); err != nil {
			return err
		}
		if _, err := villages.Add(&types.Village{Name: "Temp", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := collection(t, b, types.VillagesCollection).GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Keep", all[0].(*types.Village).Name)
}

func TestGetAll_EmptyIsNotNil(t *testing.T) {
	b := setupBackend(t)
	all, err := collection(t, b, types.MembersCollection).GetAll()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}
