package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"talentmatch/internal/entity"
	"talentmatch/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type staticUserFinder struct {
	user *entity.User
}

func (f staticUserFinder) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if f.user != nil && f.user.Username == username {
		return f.user, nil
	}
	return nil, nil
}

type staticSessionFinder struct {
	session *entity.Session
}

func (f staticSessionFinder) FindBySessionID(ctx context.Context, userID uuid.UUID, sessionID string) (*entity.Session, error) {
	if f.session != nil && f.session.UserID == userID && f.session.SessionID == sessionID {
		return f.session, nil
	}
	return nil, nil
}

func newAuthFixture(active bool) (AuthMiddleware, *entity.User, string, *utils.JWTManager) {
	manager := &utils.JWTManager{Secret: []byte("test-secret")}
	user := &entity.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "alice@example.com",
		Role:     entity.UserRoleUser,
	}
	sessionID := "sess-abc"
	session := &entity.Session{
		UserID:    user.ID,
		SessionID: sessionID,
		Active:    active,
	}
	mw := AuthMiddleware{
		JWT:      manager,
		Users:    staticUserFinder{user: user},
		Sessions: staticSessionFinder{session: session},
	}
	return mw, user, sessionID, manager
}

func perform(t *testing.T, mw AuthMiddleware, authorization string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured echo.Context
	next := func(c echo.Context) error {
		captured = c
		return c.NoContent(http.StatusOK)
	}
	err := mw.RequireAuth(next)(c)
	return rec, captured, err
}

func TestRequireAuthAcceptsActiveSession(t *testing.T) {
	mw, user, sessionID, manager := newAuthFixture(true)
	token, _, err := manager.IssueAccessToken(user.ID.String(), user.Username, user.Email, sessionID, false)
	require.NoError(t, err)

	_, captured, err := perform(t, mw, "Bearer "+token)
	require.NoError(t, err)
	require.NotNil(t, captured)

	gotUserID, ok := UserIDFromContext(captured)
	require.True(t, ok)
	require.Equal(t, user.ID, gotUserID)
	gotSession, ok := SessionIDFromContext(captured)
	require.True(t, ok)
	require.Equal(t, sessionID, gotSession)
	role, ok := RoleFromContext(captured)
	require.True(t, ok)
	require.Equal(t, "user", role)
}

func TestRequireAuthRejectsRevokedSession(t *testing.T) {
	mw, user, sessionID, manager := newAuthFixture(false)
	token, _, err := manager.IssueAccessToken(user.ID.String(), user.Username, user.Email, sessionID, false)
	require.NoError(t, err)

	rec, captured, err := perform(t, mw, "Bearer "+token)
	require.Nil(t, captured)
	requireUnauthorized(t, rec, err)
}

func TestRequireAuthRejectsUnknownSession(t *testing.T) {
	mw, user, _, manager := newAuthFixture(true)
	token, _, err := manager.IssueAccessToken(user.ID.String(), user.Username, user.Email, "other-session", false)
	require.NoError(t, err)

	rec, captured, err := perform(t, mw, "Bearer "+token)
	require.Nil(t, captured)
	requireUnauthorized(t, rec, err)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	mw, user, sessionID, _ := newAuthFixture(true)

	for name, header := range map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage token":  "Bearer not.a.jwt",
	} {
		rec, captured, err := perform(t, mw, header)
		require.Nil(t, captured, name)
		requireUnauthorized(t, rec, err)
	}

	// A token signed with a different secret is a forgery.
	forger := utils.JWTManager{Secret: []byte("other-secret")}
	forged, _, err := forger.IssueAccessToken(user.ID.String(), user.Username, user.Email, sessionID, false)
	require.NoError(t, err)
	rec, captured, err := perform(t, mw, "Bearer "+forged)
	require.Nil(t, captured)
	requireUnauthorized(t, rec, err)
}

func requireUnauthorized(t *testing.T, rec *httptest.ResponseRecorder, err error) {
	t.Helper()
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
	require.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
}
