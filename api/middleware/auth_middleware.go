package middleware

import (
	"context"
	"net/http"
	"strings"

	"talentmatch/internal/entity"
	"talentmatch/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

type SessionFinder interface {
	FindBySessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*entity.Session, error)
}

// AuthMiddleware validates the bearer token, then cross-checks the session id
// it carries against the ledger. A syntactically valid token whose session has
// been revoked is rejected the same as a forged one.
type AuthMiddleware struct {
	JWT      *utils.JWTManager
	Users    UserFinder
	Sessions SessionFinder
}

func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil || m.Users == nil || m.Sessions == nil {
			return unauthorized(c)
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return unauthorized(c)
		}
		claims, err := m.JWT.ParseAccessToken(token)
		if err != nil {
			return unauthorized(c)
		}
		if strings.TrimSpace(claims.SessionID) == "" {
			return unauthorized(c)
		}

		ctx := c.Request().Context()
		user, err := m.Users.FindByUsername(ctx, claims.Subject)
		if err != nil || user == nil {
			return unauthorized(c)
		}
		session, err := m.Sessions.FindBySessionID(ctx, user.ID, claims.SessionID)
		if err != nil || session == nil || !session.Active {
			return unauthorized(c)
		}

		SetAuthContext(c, user.ID, user.Username, string(user.Role), claims.SessionID)
		return next(c)
	}
}

func unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
