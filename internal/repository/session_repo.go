package repository

import (
	"context"
	"errors"

	"talentmatch/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindBySessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*entity.Session, error)
	// Revoke marks the matching ledger row inactive and reports whether a row
	// matched. Already-revoked rows still match; revocation is idempotent.
	Revoke(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error)
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	RevokeOthers(ctx context.Context, userID uuid.UUID, keepSessionID string) error
	ListRecent(ctx context.Context, userID uuid.UUID, excludeSessionID string, limit int) ([]entity.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *entity.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *sessionRepository) FindBySessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*entity.Session, error) {
	var session entity.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, userID uuid.UUID, sessionID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Update("active", false)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *sessionRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("user_id = ? AND active = true", userID).
		Update("active", false).
		Error
}

func (r *sessionRepository) RevokeOthers(ctx context.Context, userID uuid.UUID, keepSessionID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Session{}).
		Where("user_id = ? AND session_id <> ? AND active = true", userID, keepSessionID).
		Update("active", false).
		Error
}

func (r *sessionRepository) ListRecent(ctx context.Context, userID uuid.UUID, excludeSessionID string, limit int) ([]entity.Session, error) {
	if limit <= 0 {
		limit = 5
	}
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	if excludeSessionID != "" {
		query = query.Where("session_id <> ?", excludeSessionID)
	}

	var sessions []entity.Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
