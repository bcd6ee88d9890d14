package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTSecret    string
	JWTIssuer    string
	MFAJWTSecret string

	FrontendBaseURL string
	ResendAPIKey    string
	EmailFrom       string

	AIProvider string
	AIModel    string
	AIAPIKey   string
	AIBaseURL  string

	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
	S3PublicURL string

	GeoLookupEnabled bool
}

func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:    envOr("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    envOr("JWT_ISSUER", "talentmatch"),
		MFAJWTSecret: os.Getenv("MFA_JWT_SECRET"),

		FrontendBaseURL: envOr("FRONTEND_BASE_URL", "http://localhost:3000"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		EmailFrom:       envOr("EMAIL_FROM", "TalentMatch <no-reply@talentmatch.app>"),

		AIProvider: envOr("AI_PROVIDER", "openai"),
		AIModel:    os.Getenv("AI_MODEL"),
		AIAPIKey:   os.Getenv("AI_API_KEY"),
		AIBaseURL:  os.Getenv("AI_BASE_URL"),

		S3Region:    os.Getenv("S3_REGION"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		GeoLookupEnabled: os.Getenv("GEO_LOOKUP_DISABLED") != "true",
	}
	if cfg.MFAJWTSecret == "" {
		cfg.MFAJWTSecret = cfg.JWTSecret
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
