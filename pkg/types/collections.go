package types

// Standard collection names for Store.Collection.
const (
	VillagesCollection      = "villages"
	HousesCollection        = "houses"
	MembersCollection       = "members"
	SettingsCollection      = "settings"
	AadhaarImagesCollection = "aadhaar_images"
)

// StandardCollectionNames lists all collections in parent-before-child order.
var StandardCollectionNames = []string{
	VillagesCollection,
	HousesCollection,
	MembersCollection,
	SettingsCollection,
	AadhaarImagesCollection,
}

// Secondary index names. Index names are the JSON field names of the
// indexed record field.
const (
	IndexVillageID   = "villageId"
	IndexHouseNumber = "houseNumber"
	IndexHouseID     = "houseId"
	IndexFamilyID    = "familyId"
	IndexGender      = "gender"
	IndexCaste       = "caste"
)
