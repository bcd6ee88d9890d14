package entity

import (
	"time"

	"github.com/google/uuid"
)

// LocationUnavailable is stored when the geo lookup fails or is disabled.
const LocationUnavailable = "unavailable"

// Session is one row of the login ledger: the record of a successful login,
// keyed by the opaque session identifier embedded in the bearer token.
// Rows are only ever mutated by revocation and are kept as login history.
type Session struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	SessionID string `gorm:"type:varchar(64);uniqueIndex;not null"`

	IPAddress *string `gorm:"type:varchar(45)"`
	UserAgent *string `gorm:"type:text"`
	Location  string  `gorm:"type:varchar(255);not null;default:'unavailable'"`

	Active bool `gorm:"default:true;not null"`

	CreatedAt time.Time
}
