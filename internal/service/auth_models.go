package service

import (
	"time"

	"talentmatch/internal/entity"
)

type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginInput struct {
	Login     string // username or email
	Password  string
	Remember  bool
	IPAddress *string
	UserAgent *string
}

type LoginMFAInput struct {
	MFAToken  string
	Code      string
	Remember  bool
	IPAddress *string
	UserAgent *string
}

type LoginResult struct {
	AccessToken string
	// ExpiresAt is zero for remembered sessions (no expiry claim).
	ExpiresAt time.Time
	User      *entity.User

	MFARequired       bool
	MFAToken          string
	MFATokenExpiresIn int64
}

type UpdateProfileInput struct {
	Username   *string
	FirstName  *string
	LastName   *string
	Email      *string
	Profession *string
	Bio        *string
}

// SessionView is one row of the login-activity report. Current marks the
// synthesized entry built from the live request; it is never persisted.
type SessionView struct {
	SessionID string
	IPAddress *string
	UserAgent *string
	Location  string
	Active    bool
	Current   bool
	CreatedAt time.Time
}

type LoginActivity struct {
	Current SessionView
	Recent  []SessionView
}
