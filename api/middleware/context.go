package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextUserIDKey   = "auth_user_id"
	contextUsernameKey = "auth_username"
	contextRoleKey     = "auth_role"
	contextSessionKey  = "auth_session_id"
)

func SetAuthContext(c echo.Context, userID uuid.UUID, username string, role string, sessionID string) {
	c.Set(contextUserIDKey, userID)
	c.Set(contextUsernameKey, username)
	c.Set(contextRoleKey, role)
	c.Set(contextSessionKey, sessionID)
}

func UserIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextUserIDKey)
	userID, ok := value.(uuid.UUID)
	return userID, ok
}

func UsernameFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextUsernameKey)
	username, ok := value.(string)
	return username, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextRoleKey)
	role, ok := value.(string)
	return role, ok
}

func SessionIDFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextSessionKey)
	sessionID, ok := value.(string)
	return sessionID, ok
}
