package survey

import (
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// Batch exposes repository operations bound to one Store transaction. It is
// only valid inside the function passed to Repository.Batch.
type Batch struct {
	r *Repository
	c collections
}

// Batch runs fn in one transaction. If fn returns an error, nothing fn did
// through the Batch is kept.
func (r *Repository) Batch(fn func(b *Batch) error) (err error) {
	defer func(start time.Time) { r.observe("batch", start, err) }(time.Now())

	return r.update(func(c collections) error {
		return fn(&Batch{r: r, c: c})
	})
}

// AddVillage is Repository.AddVillage inside the batch.
func (b *Batch) AddVillage(in VillageInput) (int64, error) {
	return b.r.addVillage(b.c, in)
}

// AddHouse is Repository.AddHouse inside the batch.
func (b *Batch) AddHouse(in HouseInput) (int64, error) {
	return b.r.addHouse(b.c, in)
}

// AddMember is Repository.AddMember inside the batch.
func (b *Batch) AddMember(in MemberInput) (int64, error) {
	return b.r.addMember(b.c, in)
}

// SetSetting is Repository.SetSetting inside the batch.
func (b *Batch) SetSetting(key string, value any) error {
	return b.r.setSetting(b.c, key, value)
}

func (b *Batch) Villages() ([]*types.Village, error) {
	return listRecords[types.Village](b.c, types.VillagesCollection)
}

func (b *Batch) Houses() ([]*types.House, error) {
	return listRecords[types.House](b.c, types.HousesCollection)
}

func (b *Batch) Members() ([]*types.Member, error) {
	return listRecords[types.Member](b.c, types.MembersCollection)
}

func (b *Batch) Settings() ([]*types.Setting, error) {
	return listRecords[types.Setting](b.c, types.SettingsCollection)
}

// ClearAll empties every collection, settings and images included.
// Identifier sequences continue.
func (b *Batch) ClearAll() error {
	for _, name := range types.StandardCollectionNames {
		coll, err := collection(b.c, name)
		if err != nil {
			return err
		}
		if err := coll.Clear(); err != nil {
			return &types.StepError{Op: "clear", Collection: name, Key: "*", Err: err}
		}
	}
	return nil
}
