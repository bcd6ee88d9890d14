package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"talentmatch/api/handler"
	apiMiddleware "talentmatch/api/middleware"
	"talentmatch/api/routes"
	"talentmatch/config"
	"talentmatch/internal/ai"
	"talentmatch/internal/extract"
	"talentmatch/internal/repository"
	"talentmatch/internal/service"
	"talentmatch/internal/storage"
	"talentmatch/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migrate database")
	}

	validate := validator.New()

	accessManager := utils.JWTManager{
		Secret:         []byte(cfg.JWTSecret),
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: 24 * time.Hour,
	}
	accessIssuer := service.JWTAccessIssuer{Manager: &accessManager}
	mfaIssuer := service.MFATokenIssuerJWT{
		Secret: []byte(cfg.MFAJWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    5 * time.Minute,
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	mfaRepo := repository.NewMFASecretRepository(db)
	securityRepo := repository.NewSecurityLogRepository(db)

	var locations service.LocationResolver = service.NullLocationResolver{}
	if cfg.GeoLookupEnabled {
		locations = service.NewIPAPILocationResolver()
	}

	authService := service.NewAuthService(
		userRepo,
		sessionRepo,
		mfaRepo,
		securityRepo,
		service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.FrontendBaseURL),
		service.BcryptPasswordHasher{},
		accessIssuer,
		mfaIssuer,
		service.NewTOTPProvider("TalentMatch"),
		locations,
		service.RealClock{},
		service.AuthConfig{
			AccessTokenTTL:      24 * time.Hour,
			ResetTokenTTL:       time.Hour,
			VerificationCodeTTL: 20 * time.Minute,
			MFATokenTTL:         5 * time.Minute,
			MFAIssuer:           "TalentMatch",
			FrontendBaseURL:     cfg.FrontendBaseURL,
		},
	)

	matchService := service.NewMatchService(newGenerator(cfg, logger), extract.New(nil), 60*time.Second)

	var avatars storage.AvatarStore
	if cfg.S3Bucket != "" {
		avatars, err = storage.NewS3Store(context.Background(), storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			logger.WithError(err).Fatal("init image storage")
		}
	}

	authHandler := handler.NewAuthHandler(authService, validate)
	accountHandler := handler.NewAccountHandler(authService, avatars, validate)
	matchHandler := handler.NewMatchHandler(matchService, authService)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{
		JWT:      &accessManager,
		Users:    userRepo,
		Sessions: sessionRepo,
	}
	router := routes.NewRouter(app, authHandler, accountHandler, matchHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

// newGenerator builds the configured AI provider. Matching degrades in place
// when no provider is configured, so a missing key is a warning, not a fatal.
func newGenerator(cfg *config.Config, logger *logrus.Logger) ai.Generator {
	if cfg.AIAPIKey == "" {
		logger.Warn("AI_API_KEY is not set, resume analysis is disabled")
		return nil
	}
	provider, err := ai.NewProvider(cfg.AIProvider, map[string]any{
		"api_key":  cfg.AIAPIKey,
		"base_url": cfg.AIBaseURL,
	})
	if err != nil {
		logger.WithError(err).Warn("init ai provider, resume analysis is disabled")
		return nil
	}
	model := cfg.AIModel
	if model == "" {
		model = "gpt-4o-mini"
	}
	return ai.NewGenerator(provider, model)
}
