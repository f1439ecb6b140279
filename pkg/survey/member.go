package survey

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// MemberInput holds the caller-supplied fields of a Member. HouseID is only
// read by AddMember; a member never moves between houses.
type MemberInput struct {
	HouseID         int64  `json:"houseId"`
	FullName        string `json:"fullName"`
	FatherName      string `json:"fatherName"`
	DOB             string `json:"dob"`
	Gender          string `json:"gender"`
	MaritalStatus   string `json:"maritalStatus"`
	Education       string `json:"education"`
	Occupation      string `json:"occupation"`
	Mobile          string `json:"mobile"`
	Disability      bool   `json:"disability"`
	Caste           string `json:"caste"`
	VoterID         bool   `json:"voterId"`
	AadhaarVerified bool   `json:"aadhaarVerified"`
	AadhaarLast4    string `json:"aadhaarLast4"`
	Notes           string `json:"notes"`
}

// validate checks the required fields and returns the member's age as of
// today. A dob after today is accepted with age 0.
func (in MemberInput) validate(today time.Time, requireHouse bool) (int, error) {
	var missing []string
	if requireHouse && in.HouseID <= 0 {
		missing = append(missing, "houseId")
	}
	if strings.TrimSpace(in.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(in.FatherName) == "" {
		missing = append(missing, "fatherName")
	}
	if strings.TrimSpace(in.DOB) == "" {
		missing = append(missing, "dob")
	}
	if len(missing) > 0 {
		return 0, types.Validationf("member requires %s", strings.Join(missing, ", "))
	}

	dob, err := ParseDOB(in.DOB)
	if err != nil {
		return 0, err
	}
	if !ValidAadhaarLast4(in.AadhaarLast4) {
		return 0, types.Validationf("aadhaarLast4 must be 4 digits")
	}
	return Age(dob, dateOnly(today)), nil
}

// ValidAadhaarLast4 reports whether s is empty or exactly four digits.
func ValidAadhaarLast4(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != 4 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// apply copies the editable fields of in onto m.
func (in MemberInput) apply(m *types.Member, age int) {
	m.FullName = strings.TrimSpace(in.FullName)
	m.FatherName = strings.TrimSpace(in.FatherName)
	m.DOB = strings.TrimSpace(in.DOB)
	m.Age = age
	m.Gender = in.Gender
	m.MaritalStatus = in.MaritalStatus
	m.Education = in.Education
	m.Occupation = in.Occupation
	m.Mobile = in.Mobile
	m.Disability = in.Disability
	m.Caste = in.Caste
	m.VoterID = in.VoterID
	m.AadhaarVerified = in.AadhaarVerified
	m.AadhaarLast4 = in.AadhaarLast4
	m.Notes = in.Notes
}

// AddMember creates a member in an existing house and returns its id. The
// member inherits the house's familyId.
func (r *Repository) AddMember(in MemberInput) (id int64, err error) {
	defer func(start time.Time) { r.observe("member.add", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		id, err = r.addMember(c, in)
		return err
	})
	return id, err
}

func (r *Repository) addMember(c collections, in MemberInput) (int64, error) {
	age, err := in.validate(r.now(), true)
	if err != nil {
		return 0, err
	}
	house, err := getRecord[types.House](c, types.HousesCollection, in.HouseID)
	if err != nil {
		return 0, wrapMissing(err, "house", in.HouseID)
	}

	members, err := collection(c, types.MembersCollection)
	if err != nil {
		return 0, err
	}
	m := &types.Member{
		HouseID:   house.ID,
		FamilyID:  house.FamilyID,
		CreatedAt: r.timestamp(),
	}
	in.apply(m, age)
	id, err := members.Add(m)
	if err != nil {
		return 0, err
	}
	r.logger.Debug("member added", "id", id, "house", m.HouseID)
	return id, nil
}

// GetMember returns the member with the given id.
func (r *Repository) GetMember(id int64) (*types.Member, error) {
	m, err := getRecord[types.Member](r.store, types.MembersCollection, id)
	if err != nil {
		return nil, wrapMissing(err, "member", id)
	}
	return m, nil
}

// ListMembers returns every member in creation order.
func (r *Repository) ListMembers() ([]*types.Member, error) {
	return listRecords[types.Member](r.store, types.MembersCollection)
}

// MembersByHouse returns the members of a house in creation order.
func (r *Repository) MembersByHouse(houseID int64) ([]*types.Member, error) {
	return indexRecords[types.Member](r.store, types.MembersCollection, types.IndexHouseID, houseID)
}

// UpdateMember replaces the editable fields of a member and recomputes its
// age. in.HouseID is ignored.
func (r *Repository) UpdateMember(id int64, in MemberInput) (m *types.Member, err error) {
	defer func(start time.Time) { r.observe("member.update", start, err) }(time.Now())

	age, err := in.validate(r.now(), false)
	if err != nil {
		return nil, err
	}
	err = r.update(func(c collections) error {
		m, err = getRecord[types.Member](c, types.MembersCollection, id)
		if err != nil {
			return wrapMissing(err, "member", id)
		}
		now := r.timestamp()
		in.apply(m, age)
		m.UpdatedAt = &now

		members, err := collection(c, types.MembersCollection)
		if err != nil {
			return err
		}
		return members.Put(m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMember removes a member and its Aadhaar image. Deleting an absent
// member succeeds with a zero result.
func (r *Repository) DeleteMember(id int64) (res CascadeResult, err error) {
	defer func(start time.Time) { r.observe("member.delete", start, err) }(time.Now())

	err = r.update(func(c collections) error {
		res, err = r.deleteMember(c, id)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}
	if res.Members > 0 {
		r.logger.Info("member deleted", "id", id, "images", res.Images)
	}
	return res, nil
}

func (r *Repository) deleteMember(c collections, id int64) (CascadeResult, error) {
	var res CascadeResult
	if id <= 0 {
		return res, nil
	}

	members, err := collection(c, types.MembersCollection)
	if err != nil {
		return res, err
	}
	if _, err := members.Get(id); err != nil {
		if isMissing(err) {
			return res, nil
		}
		return res, err
	}

	images, err := collection(c, types.AadhaarImagesCollection)
	if err != nil {
		return res, err
	}
	_, err = images.Get(id)
	switch {
	case err == nil:
		if err := images.Delete(id); err != nil {
			return res, &types.StepError{Op: "delete", Collection: types.AadhaarImagesCollection, Key: id, Err: err}
		}
		res.Images++
	case !isMissing(err):
		return res, &types.StepError{Op: "get", Collection: types.AadhaarImagesCollection, Key: id, Err: err}
	}

	if err := members.Delete(id); err != nil {
		return res, &types.StepError{Op: "delete", Collection: types.MembersCollection, Key: id, Err: err}
	}
	res.Members++
	return res, nil
}
