package service

import (
	"context"
	"time"

	"talentmatch/internal/entity"

	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	AccessTokenTTL      time.Duration
	ResetTokenTTL       time.Duration
	VerificationCodeTTL time.Duration
	MFATokenTTL         time.Duration
	MFAIssuer           string
	FrontendBaseURL     string
}

type EmailSender interface {
	SendVerificationEmail(ctx context.Context, email string, username string, code string) error
	SendPasswordResetEmail(ctx context.Context, email string, username string, token string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

// AccessTokenIssuer mints the signed bearer token for a session. The returned
// time is the token expiry; it is zero when remember is set, in which case the
// token carries no expiry claim at all.
type AccessTokenIssuer interface {
	IssueAccessToken(user entity.User, sessionID string, remember bool) (string, time.Time, error)
}

type MFATokenIssuer interface {
	IssueMFAToken(userID string) (string, time.Duration, error)
	ParseMFAToken(token string) (string, error)
}

type MFAProvider interface {
	GenerateSecret() (string, error)
	QRCodeURL(email string, issuer string, secret string) (string, error)
	ValidateCode(secret string, code string) bool
}

// LocationResolver maps a network address to an approximate location.
// Implementations must be time-bounded; failures degrade to
// entity.LocationUnavailable and never fail the caller.
type LocationResolver interface {
	Resolve(ctx context.Context, ip string) string
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
