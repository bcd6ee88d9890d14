package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"talentmatch/internal/entity"
	"talentmatch/internal/repository"
	"talentmatch/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Burned on every failed lookup so unknown and known usernames cost the same.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const (
	sessionIDBytes  = 16 // 128 bits of entropy
	resetTokenBytes = 32
	codeDigits      = 6
)

type AuthService struct {
	users        repository.UserRepository
	sessions     repository.SessionRepository
	mfaSecrets   repository.MFASecretRepository
	securityLogs repository.SecurityLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	mfaTokens    MFATokenIssuer
	mfaProvider  MFAProvider
	locations    LocationResolver
	clock        Clock
	config       AuthConfig
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	mfaSecrets repository.MFASecretRepository,
	securityLogs repository.SecurityLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	mfaTokens MFATokenIssuer,
	mfaProvider MFAProvider,
	locations LocationResolver,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		users:        users,
		sessions:     sessions,
		mfaSecrets:   mfaSecrets,
		securityLogs: securityLogs,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		mfaTokens:    mfaTokens,
		mfaProvider:  mfaProvider,
		locations:    locations,
		clock:        clock,
		config:       config,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(input.Username)
	email := utils.NormalizeEmail(input.Email)
	if username == "" || email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.UserRoleUser,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Login) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(input.Login))
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.FindByUsername(ctx, strings.TrimSpace(input.Login))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.logSecurity(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"login": input.Login})
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(user.PasswordHash, input.Password) {
		_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginFailed, nil)
		return nil, ErrInvalidCredentials
	}

	if s.mfaProvider != nil && s.mfaSecrets != nil && s.mfaTokens != nil {
		secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if secret != nil && secret.EnabledAt != nil {
			mfaToken, expiresIn, err := s.mfaTokens.IssueMFAToken(user.ID.String())
			if err != nil {
				return nil, err
			}
			return &LoginResult{
				MFARequired:       true,
				MFAToken:          mfaToken,
				MFATokenExpiresIn: int64(expiresIn.Seconds()),
			}, nil
		}
	}

	result, err := s.createSession(ctx, user, input.Remember, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, nil)
	return result, nil
}

func (s *AuthService) LoginWithMFA(ctx context.Context, input LoginMFAInput) (*LoginResult, error) {
	if s.mfaProvider == nil || s.mfaTokens == nil || s.mfaSecrets == nil {
		return nil, ErrMFANotConfigured
	}
	if strings.TrimSpace(input.MFAToken) == "" || strings.TrimSpace(input.Code) == "" {
		return nil, ErrInvalidInput
	}
	rawUserID, err := s.mfaTokens.ParseMFAToken(input.MFAToken)
	if err != nil {
		return nil, ErrInvalidOrExpired
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return nil, ErrInvalidOrExpired
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	secret, err := s.mfaSecrets.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.EnabledAt == nil {
		return nil, ErrMFARequired
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, input.Code) {
		_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.MFAFailed, nil)
		return nil, ErrInvalidMFACode
	}

	result, err := s.createSession(ctx, user, input.Remember, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}
	_ = s.logSecurity(ctx, &user.ID, input.IPAddress, entity.LoginSuccess, map[string]any{"mfa": true})
	return result, nil
}

// RevokeSession deactivates one ledger row owned by the caller. Revoking the
// caller's own current session is allowed; the in-flight request finishes and
// the next validation observes the flag.
func (s *AuthService) RevokeSession(ctx context.Context, userID uuid.UUID, sessionID string, ipAddress *string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidInput
	}
	revoked, err := s.sessions.Revoke(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if !revoked {
		return ErrSessionNotFound
	}
	_ = s.logSecurity(ctx, &userID, ipAddress, entity.SessionRevoked, map[string]any{"session_id": sessionID})
	return nil
}

// LoginActivity reports the synthesized current session followed by up to
// five prior ledger rows, newest first. The current entry is built from the
// live request and never persisted.
func (s *AuthService) LoginActivity(ctx context.Context, userID uuid.UUID, currentSessionID string, ipAddress *string, userAgent *string) (*LoginActivity, error) {
	recent, err := s.sessions.ListRecent(ctx, userID, currentSessionID, 5)
	if err != nil {
		return nil, err
	}

	activity := &LoginActivity{
		Current: SessionView{
			SessionID: currentSessionID,
			IPAddress: ipAddress,
			UserAgent: userAgent,
			Location:  s.resolveLocation(ctx, ipAddress),
			Active:    true,
			Current:   true,
			CreatedAt: s.now(),
		},
		Recent: make([]SessionView, 0, len(recent)),
	}
	for i := range recent {
		session := &recent[i]
		activity.Recent = append(activity.Recent, SessionView{
			SessionID: session.SessionID,
			IPAddress: session.IPAddress,
			UserAgent: session.UserAgent,
			Location:  session.Location,
			Active:    session.Active,
			CreatedAt: session.CreatedAt,
		})
	}
	return activity, nil
}

func (s *AuthService) SendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, err := utils.GenerateNumericCode(codeDigits)
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.verificationCodeTTL())
	if err := s.users.SetVerificationCode(ctx, user.ID, utils.HashToken(code), expiresAt); err != nil {
		return err
	}

	s.sendAsync("verification email", func(ctx context.Context) error {
		return s.emailSender.SendVerificationEmail(ctx, user.Email, user.Username, code)
	})
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.VerificationCodeHash == nil || user.VerificationExpiresAt == nil {
		return ErrInvalidOrExpired
	}
	if utils.HashToken(strings.TrimSpace(code)) != *user.VerificationCodeHash {
		// Stored code stays in place so the user may retry.
		return ErrInvalidOrExpired
	}
	if !s.now().Before(*user.VerificationExpiresAt) {
		return ErrInvalidOrExpired
	}

	if err := s.users.MarkEmailVerified(ctx, user.ID); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, &user.ID, nil, entity.EmailVerified, nil)
	return nil
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}
	user, err := s.users.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	token, err := utils.GenerateRandomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.resetTokenTTL())
	if err := s.users.SetResetToken(ctx, user.ID, utils.HashToken(token), expiresAt); err != nil {
		return err
	}

	s.sendAsync("password reset email", func(ctx context.Context) error {
		return s.emailSender.SendPasswordResetEmail(ctx, user.Email, user.Username, token)
	})
	_ = s.logSecurity(ctx, &user.ID, nil, entity.Reset, map[string]any{"stage": "requested"})
	return nil
}

// VerifyPasswordReset resolves a reset token to its account without consuming
// it, so the frontend can gate the new-password form.
func (s *AuthService) VerifyPasswordReset(ctx context.Context, token string) (*entity.User, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidOrExpired
	}
	user, err := s.users.FindByResetTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return nil, err
	}
	if user == nil || user.ResetTokenExpiresAt == nil {
		return nil, ErrInvalidOrExpired
	}
	if !s.now().Before(*user.ResetTokenExpiresAt) {
		return nil, ErrInvalidOrExpired
	}
	return user, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}
	user, err := s.VerifyPasswordReset(ctx, token)
	if err != nil {
		return err
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.CompletePasswordReset(ctx, user.ID, hash); err != nil {
		return err
	}

	_ = s.sessions.RevokeAllByUser(ctx, user.ID)
	_ = s.logSecurity(ctx, &user.ID, nil, entity.Reset, map[string]any{"stage": "completed"})
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, currentSessionID string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !s.passwordHash.Verify(user.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}
	if s.passwordHash.Verify(user.PasswordHash, newPassword) {
		return ErrPasswordMustDiffer
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	// Force re-login everywhere else; the session the change came from stays.
	_ = s.sessions.RevokeOthers(ctx, user.ID, currentSessionID)
	_ = s.logSecurity(ctx, &user.ID, nil, entity.PasswordChange, nil)
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrInvalidInput
		}
		if username != user.Username {
			existing, err := s.users.FindByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrUsernameTaken
			}
			user.Username = username
		}
	}
	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if email == "" {
			return nil, ErrInvalidInput
		}
		if email != user.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrEmailTaken
			}
			// The verified flag and any outstanding code belong to the old
			// address; both go in the same write as the email itself.
			user.Email = email
			user.EmailVerified = false
			user.VerificationCodeHash = nil
			user.VerificationExpiresAt = nil
		}
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Profession != nil {
		trimmed := strings.TrimSpace(*input.Profession)
		user.Profession = &trimmed
	}
	if input.Bio != nil {
		trimmed := strings.TrimSpace(*input.Bio)
		user.Bio = &trimmed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID, ipAddress *string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	// Sessions, security logs and MFA secrets go with the row via FK cascade.
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	_ = s.logSecurity(ctx, nil, ipAddress, entity.AccountDeleted, map[string]any{"username": user.Username})
	return nil
}

func (s *AuthService) SetProfileImage(ctx context.Context, userID uuid.UUID, imageURL *string) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	user.ProfileImageURL = imageURL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]entity.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *AuthService) RevokeUserSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllByUser(ctx, userID)
}

func (s *AuthService) EnableMFA(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return "", ErrMFANotConfigured
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	secret, err := s.mfaProvider.GenerateSecret()
	if err != nil {
		return "", err
	}
	mfaSecret := &entity.MFASecret{
		UserID:    user.ID,
		Secret:    secret,
		EnabledAt: nil,
	}
	if err := s.mfaSecrets.Upsert(ctx, mfaSecret); err != nil {
		return "", err
	}

	issuer := s.config.MFAIssuer
	if strings.TrimSpace(issuer) == "" {
		issuer = "TalentMatch"
	}
	return s.mfaProvider.QRCodeURL(user.Email, issuer, secret)
}

func (s *AuthService) VerifyMFA(ctx context.Context, userID uuid.UUID, code string) error {
	if s.mfaProvider == nil || s.mfaSecrets == nil {
		return ErrMFANotConfigured
	}
	if strings.TrimSpace(code) == "" {
		return ErrInvalidInput
	}
	secret, err := s.mfaSecrets.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrMFARequired
	}
	if !s.mfaProvider.ValidateCode(secret.Secret, code) {
		return ErrInvalidMFACode
	}

	now := s.now()
	secret.EnabledAt = &now
	return s.mfaSecrets.Upsert(ctx, secret)
}

func (s *AuthService) DisableMFA(ctx context.Context, userID uuid.UUID) error {
	if s.mfaSecrets == nil {
		return nil
	}
	return s.mfaSecrets.Disable(ctx, userID)
}

// createSession appends a ledger row for a fresh, independently generated
// session id and mints the bearer token that embeds it. Concurrent logins
// never contend: each insert is its own row.
func (s *AuthService) createSession(ctx context.Context, user *entity.User, remember bool, ipAddress *string, userAgent *string) (*LoginResult, error) {
	sessionID, err := utils.GenerateRandomToken(sessionIDBytes)
	if err != nil {
		return nil, err
	}

	session := &entity.Session{
		UserID:    user.ID,
		SessionID: sessionID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Location:  s.resolveLocation(ctx, ipAddress),
		Active:    true,
		CreatedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.accessTokens.IssueAccessToken(*user, sessionID, remember)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

func (s *AuthService) resolveLocation(ctx context.Context, ipAddress *string) string {
	if s.locations == nil || ipAddress == nil {
		return entity.LocationUnavailable
	}
	return s.locations.Resolve(ctx, *ipAddress)
}

// sendAsync delivers mail off the request path. Delivery failure is logged
// and otherwise ignored; it must never fail the operation that queued it.
func (s *AuthService) sendAsync(what string, send func(ctx context.Context) error) {
	if s.emailSender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := send(ctx); err != nil {
			logrus.WithError(err).Warnf("send %s", what)
		}
	}()
}

func (s *AuthService) logSecurity(
	ctx context.Context,
	userID *uuid.UUID,
	ipAddress *string,
	action entity.SecurityAction,
	metadata map[string]any,
) error {
	if s.securityLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.SecurityLog{
		UserID:    userID,
		IPAddress: ipAddress,
		Action:    action,
		Metadata:  payload,
	}
	return s.securityLogs.Log(ctx, log)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) resetTokenTTL() time.Duration {
	if s.config.ResetTokenTTL > 0 {
		return s.config.ResetTokenTTL
	}
	return time.Hour
}

func (s *AuthService) verificationCodeTTL() time.Duration {
	if s.config.VerificationCodeTTL > 0 {
		return s.config.VerificationCodeTTL
	}
	return 20 * time.Minute
}
