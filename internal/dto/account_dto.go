package dto

import (
	"time"

	"talentmatch/internal/service"
)

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type UpdateProfileRequest struct {
	Username   *string `json:"username" validate:"omitempty,min=3,max=32"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=64"`
	LastName   *string `json:"last_name" validate:"omitempty,max=64"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Profession *string `json:"profession" validate:"omitempty,max=128"`
	Bio        *string `json:"bio" validate:"omitempty,max=2048"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required,len=6"`
}

type LogoutSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	Current   bool      `json:"current,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginActivityResponse struct {
	Current SessionResponse   `json:"current"`
	Recent  []SessionResponse `json:"recent"`
}

func SessionResponseFromView(view service.SessionView) SessionResponse {
	return SessionResponse{
		SessionID: view.SessionID,
		IPAddress: view.IPAddress,
		UserAgent: view.UserAgent,
		Location:  view.Location,
		Active:    view.Active,
		Current:   view.Current,
		CreatedAt: view.CreatedAt,
	}
}

func LoginActivityResponseFromService(activity *service.LoginActivity) LoginActivityResponse {
	response := LoginActivityResponse{
		Current: SessionResponseFromView(activity.Current),
		Recent:  make([]SessionResponse, 0, len(activity.Recent)),
	}
	for _, view := range activity.Recent {
		response.Recent = append(response.Recent, SessionResponseFromView(view))
	}
	return response
}
