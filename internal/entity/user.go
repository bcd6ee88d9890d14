package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         UserRole  `gorm:"type:user_role;default:'user';not null"`

	FirstName       string  `gorm:"type:varchar(100)"`
	LastName        string  `gorm:"type:varchar(100)"`
	Profession      *string `gorm:"type:varchar(255)"`
	Bio             *string `gorm:"type:text"`
	ProfileImageURL *string `gorm:"type:text"`

	// At most one outstanding verification code and one outstanding reset
	// token per account; issuing a new value overwrites the previous one.
	EmailVerified         bool    `gorm:"default:false;not null"`
	VerificationCodeHash  *string `gorm:"type:text"`
	VerificationExpiresAt *time.Time
	ResetTokenHash        *string `gorm:"type:text;index"`
	ResetTokenExpiresAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Sessions []Session
}

func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}
