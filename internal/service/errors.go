package service

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUsernameTaken       = errors.New("username already registered")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidOrExpired    = errors.New("invalid or expired token")
	ErrPasswordMustDiffer  = errors.New("new password must differ from the current one")
	ErrSessionNotFound     = errors.New("session not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrMFARequired         = errors.New("mfa required")
	ErrInvalidMFACode      = errors.New("invalid mfa code")
	ErrMFANotConfigured    = errors.New("mfa not configured")
	ErrUnsupportedImage    = errors.New("unsupported image type")
	ErrStorageNotAvailable = errors.New("image storage not configured")
)
