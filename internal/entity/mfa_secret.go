package entity

import (
	"time"

	"github.com/google/uuid"
)

// MFASecret holds one user's TOTP secret. EnabledAt stays nil from enrollment
// until the user proves possession by verifying a first code; only enabled
// secrets put the second factor in the login path.
type MFASecret struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	Secret    string `gorm:"type:text;not null"`
	EnabledAt *time.Time

	CreatedAt time.Time
}
