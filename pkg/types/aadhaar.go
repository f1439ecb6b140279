package types

import "time"

// AadhaarImage is the scanned identity document of a Member, keyed by the
// member's ID. A member has at most one image.
type AadhaarImage struct {
	MemberID   int64     `json:"memberId"`
	ImageData  []byte    `json:"imageData"`
	UploadedAt time.Time `json:"uploadedAt"`
}
