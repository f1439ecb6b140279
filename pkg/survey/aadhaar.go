package survey

import (
	"time"

	"github.com/mesh-intelligence/census/pkg/types"
)

// StoreAadhaarImage saves or replaces the Aadhaar scan of a member. The
// member is not looked up.
func (r *Repository) StoreAadhaarImage(memberID int64, data []byte) (err error) {
	defer func(start time.Time) { r.observe("image.store", start, err) }(time.Now())

	if memberID <= 0 {
		return types.Validationf("memberId is required")
	}
	if len(data) == 0 {
		return types.Validationf("image data is empty")
	}
	images, err := collection(r.store, types.AadhaarImagesCollection)
	if err != nil {
		return err
	}
	return images.Put(&types.AadhaarImage{
		MemberID:   memberID,
		ImageData:  data,
		UploadedAt: r.timestamp(),
	})
}

// GetAadhaarImage returns the Aadhaar scan of a member.
func (r *Repository) GetAadhaarImage(memberID int64) (*types.AadhaarImage, error) {
	img, err := getRecord[types.AadhaarImage](r.store, types.AadhaarImagesCollection, memberID)
	if err != nil {
		return nil, wrapMissing(err, "aadhaar image", memberID)
	}
	return img, nil
}

// DeleteAadhaarImage removes the Aadhaar scan of a member, if any.
func (r *Repository) DeleteAadhaarImage(memberID int64) (err error) {
	defer func(start time.Time) { r.observe("image.delete", start, err) }(time.Now())

	if memberID <= 0 {
		return nil
	}
	images, err := collection(r.store, types.AadhaarImagesCollection)
	if err != nil {
		return err
	}
	return images.Delete(memberID)
}
