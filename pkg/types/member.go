package types

import "time"

// DateLayout is the layout of Member.DOB.
const DateLayout = "2006-01-02"

// Gender values used by the survey forms.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// Caste categories used by the survey forms.
const (
	CasteSC      = "SC"
	CasteST      = "ST"
	CasteOBC     = "OBC"
	CasteGeneral = "General"
	CasteOther   = "Other"
)

// Member is a person living in a House.
//
// FamilyID is copied from the owning House when the member is created. Age is
// derived from DOB on every write and is not recomputed as time passes.
type Member struct {
	ID              int64      `json:"id"`
	HouseID         int64      `json:"houseId"`
	FamilyID        string     `json:"familyId"`
	FullName        string     `json:"fullName"`
	FatherName      string     `json:"fatherName"`
	DOB             string     `json:"dob"`
	Age             int        `json:"age"`
	Gender          string     `json:"gender"`
	MaritalStatus   string     `json:"maritalStatus"`
	Education       string     `json:"education"`
	Occupation      string     `json:"occupation"`
	Mobile          string     `json:"mobile"`
	Disability      bool       `json:"disability"`
	Caste           string     `json:"caste"`
	VoterID         bool       `json:"voterId"`
	AadhaarVerified bool       `json:"aadhaarVerified"`
	AadhaarLast4    string     `json:"aadhaarLast4"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// NeedsVoterRegistration reports whether the member is at or above the
// eligibility age and has no voter ID.
func (m *Member) NeedsVoterRegistration(eligibilityAge int) bool {
	return m.Age >= eligibilityAge && !m.VoterID
}
