package routes

import (
	"time"

	"talentmatch/api/handler"
	"talentmatch/api/middleware"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Auth           *handler.AuthHandler
	Account        *handler.AccountHandler
	Match          *handler.MatchHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	accountHandler *handler.AccountHandler,
	matchHandler *handler.MatchHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Auth:           authHandler,
		Account:        accountHandler,
		Match:          matchHandler,
		AuthMiddleware: authMiddleware,
		// Per-IP budgets. Credential endpoints (login, mfa, reset request)
		// get the tighter bucket since they are the enumeration targets.
		AuthRate:  middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate: middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/register", r.Auth.Register, r.AuthRate.Middleware())
	e.POST("/login", r.Auth.Login, r.LoginRate.Middleware())
	e.POST("/login/mfa", r.Auth.LoginWithMFA, r.LoginRate.Middleware())
	e.POST("/request-password-reset", r.Auth.PasswordForgot, r.LoginRate.Middleware())
	e.POST("/verify-password-reset", r.Auth.PasswordResetVerify, r.AuthRate.Middleware())
	e.POST("/reset-password", r.Auth.PasswordReset, r.AuthRate.Middleware())

	e.GET("/me", r.Auth.Me, r.AuthMiddleware.RequireAuth)

	e.GET("/account/login-activity", r.Account.LoginActivity, r.AuthMiddleware.RequireAuth)
	e.POST("/account/logout-session", r.Account.LogoutSession, r.AuthMiddleware.RequireAuth)
	e.POST("/account/send-verification", r.Account.SendVerification, r.AuthMiddleware.RequireAuth, r.AuthRate.Middleware())
	e.POST("/account/verify-email", r.Account.VerifyEmail, r.AuthMiddleware.RequireAuth, r.AuthRate.Middleware())
	e.POST("/account/change-password", r.Account.ChangePassword, r.AuthMiddleware.RequireAuth)
	e.PATCH("/account/update", r.Account.UpdateProfile, r.AuthMiddleware.RequireAuth)
	e.DELETE("/account/delete", r.Account.DeleteAccount, r.AuthMiddleware.RequireAuth)
	e.POST("/account/upload-image", r.Account.UploadImage, r.AuthMiddleware.RequireAuth)
	e.POST("/account/clear-image", r.Account.ClearImage, r.AuthMiddleware.RequireAuth)
	e.POST("/account/mfa/enable", r.Account.EnableMFA, r.AuthMiddleware.RequireAuth)
	e.POST("/account/mfa/verify", r.Account.VerifyMFA, r.AuthMiddleware.RequireAuth)
	e.POST("/account/mfa/disable", r.Account.DisableMFA, r.AuthMiddleware.RequireAuth)

	// Resume analysis predates the account system and stays open.
	e.POST("/upload-resume", r.Match.UploadResume, r.AuthRate.Middleware())
	e.GET("/profile/trends", r.Match.Trends, r.AuthMiddleware.RequireAuth)

	e.GET("/admin/users", r.Auth.AdminListUsers, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
	e.POST("/admin/users/:id/revoke-sessions", r.Auth.AdminRevokeUserSessions, r.AuthMiddleware.RequireAuth, middleware.RequireRole("admin"))
}
