package service

import (
	"context"
	"sync"
	"time"

	"talentmatch/internal/entity"

	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByResetTokenHash(ctx context.Context, hash string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool {
		return u.ResetTokenHash != nil && *u.ResetTokenHash == hash
	})
}

func (r *fakeUserRepo) findBy(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) SetResetToken(ctx context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.ResetTokenHash = &hash
		user.ResetTokenExpiresAt = &expiresAt
	}
	return nil
}

func (r *fakeUserRepo) CompletePasswordReset(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.PasswordHash = passwordHash
		user.ResetTokenHash = nil
		user.ResetTokenExpiresAt = nil
	}
	return nil
}

func (r *fakeUserRepo) SetVerificationCode(ctx context.Context, userID uuid.UUID, hash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.EmailVerified = false
		user.VerificationCodeHash = &hash
		user.VerificationExpiresAt = &expiresAt
	}
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.EmailVerified = true
		user.VerificationCodeHash = nil
		user.VerificationExpiresAt = nil
	}
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]entity.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	return users, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions []entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions = append(r.sessions, *session)
	return nil
}

func (r *fakeSessionRepo) FindBySessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].SessionID == sessionID {
			copied := r.sessions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].SessionID == sessionID {
			r.sessions[i].Active = false
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSessionRepo) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].UserID == userID {
			r.sessions[i].Active = false
		}
	}
	return nil
}

func (r *fakeSessionRepo) RevokeOthers(ctx context.Context, userID uuid.UUID, keepSessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].SessionID != keepSessionID {
			r.sessions[i].Active = false
		}
	}
	return nil
}

func (r *fakeSessionRepo) ListRecent(ctx context.Context, userID uuid.UUID, excludeSessionID string, limit int) ([]entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 {
		limit = 5
	}
	matched := make([]entity.Session, 0)
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].SessionID != excludeSessionID {
			matched = append(matched, r.sessions[i])
		}
	}
	// Newest first.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakeMFARepo struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*entity.MFASecret
}

func newFakeMFARepo() *fakeMFARepo {
	return &fakeMFARepo{secrets: make(map[uuid.UUID]*entity.MFASecret)}
}

func (r *fakeMFARepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.MFASecret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if secret, ok := r.secrets[userID]; ok {
		copied := *secret
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeMFARepo) Upsert(ctx context.Context, secret *entity.MFASecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *secret
	r.secrets[secret.UserID] = &copied
	return nil
}

func (r *fakeMFARepo) Disable(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if secret, ok := r.secrets[userID]; ok {
		secret.EnabledAt = nil
	}
	return nil
}

type fakeSecurityLogRepo struct {
	mu   sync.Mutex
	logs []entity.SecurityLog
}

func newFakeSecurityLogRepo() *fakeSecurityLogRepo {
	return &fakeSecurityLogRepo{}
}

func (r *fakeSecurityLogRepo) Log(ctx context.Context, log *entity.SecurityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeSecurityLogRepo) actions() []entity.SecurityAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]entity.SecurityAction, 0, len(r.logs))
	for _, log := range r.logs {
		actions = append(actions, log.Action)
	}
	return actions
}

type fakeEmailSender struct {
	mu                sync.Mutex
	verificationCodes []string
	resetTokens       []string
}

func (s *fakeEmailSender) SendVerificationEmail(ctx context.Context, email string, username string, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verificationCodes = append(s.verificationCodes, code)
	return nil
}

func (s *fakeEmailSender) SendPasswordResetEmail(ctx context.Context, email string, username string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetTokens = append(s.resetTokens, token)
	return nil
}

func (s *fakeEmailSender) lastVerificationCode() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.verificationCodes) == 0 {
		return "", false
	}
	return s.verificationCodes[len(s.verificationCodes)-1], true
}

func (s *fakeEmailSender) lastResetToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.resetTokens) == 0 {
		return "", false
	}
	return s.resetTokens[len(s.resetTokens)-1], true
}
