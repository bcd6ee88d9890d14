package service

import (
	"time"

	"talentmatch/internal/entity"
	"talentmatch/internal/utils"
)

type JWTAccessIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTAccessIssuer) IssueAccessToken(user entity.User, sessionID string, remember bool) (string, time.Time, error) {
	if j.Manager == nil {
		return "", time.Time{}, utils.ErrInvalidToken
	}
	return j.Manager.IssueAccessToken(user.ID.String(), user.Username, user.Email, sessionID, remember)
}
