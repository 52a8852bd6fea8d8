package models

// DefaultProfileImage is the sentinel stored for accounts that never
// uploaded a picture. It is never deleted from disk.
const DefaultProfileImage = "default.png"

// User represents a registered storefront customer.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	ProfileImage string `json:"profile_image"`
	// Token holds the most recently issued session token. It is advisory
	// only: validation goes through signature + expiry + user existence,
	// never through this column.
	Token string `json:"-"`
}
