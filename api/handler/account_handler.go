package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"talentmatch/api/middleware"
	"talentmatch/internal/dto"
	"talentmatch/internal/service"
	"talentmatch/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// imageObjectExt picks the stored object extension for an upload. The client
// filename extension is honored only when it is itself on the allow-list;
// otherwise the extension follows the declared content type.
func imageObjectExt(contentType string, filename string) (string, bool) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", false
	}
	if headerExt := strings.ToLower(filepath.Ext(filename)); allowedImageExts[headerExt] {
		ext = headerExt
	}
	return ext, true
}

type AccountHandler struct {
	Service  *service.AuthService
	Avatars  storage.AvatarStore
	Validate *validator.Validate
}

func NewAccountHandler(svc *service.AuthService, avatars storage.AvatarStore, validate *validator.Validate) *AccountHandler {
	return &AccountHandler{Service: svc, Avatars: avatars, Validate: validate}
}

func (h *AccountHandler) LoginActivity(c echo.Context) error {
	userID, sessionID, err := authContext(c)
	if err != nil {
		return err
	}
	activity, err := h.Service.LoginActivity(
		c.Request().Context(),
		userID,
		sessionID,
		stringPtr(c.RealIP()),
		stringPtr(c.Request().UserAgent()),
	)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginActivityResponseFromService(activity))
}

func (h *AccountHandler) LogoutSession(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	var req dto.LogoutSessionRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.RevokeSession(c.Request().Context(), userID, req.SessionID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) SendVerification(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	if err := h.Service.SendVerification(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (h *AccountHandler) VerifyEmail(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	var req dto.VerifyEmailRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.VerifyEmail(c.Request().Context(), userID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, sessionID, err := authContext(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.NewPassword, sessionID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.UpdateProfileInput{
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Profession: req.Profession,
		Bio:        req.Bio,
	}
	user, err := h.Service.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UserResponseFromEntity(user))
}

func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	if err := h.Service.DeleteAccount(c.Request().Context(), userID, stringPtr(c.RealIP())); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) UploadImage(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	if h.Avatars == nil {
		return writeError(c, http.StatusInternalServerError, service.ErrStorageNotAvailable)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("image file is required"))
	}
	if fileHeader.Size > maxImageBytes {
		return writeError(c, http.StatusBadRequest, errors.New("image exceeds the 5MB limit"))
	}
	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	ext, ok := imageObjectExt(contentType, fileHeader.Filename)
	if !ok {
		return writeServiceError(c, service.ErrUnsupportedImage)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	defer file.Close()

	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
	imageURL, err := h.Avatars.Upload(c.Request().Context(), key, contentType, file)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, errors.New("image upload failed"))
	}

	if _, err := h.Service.SetProfileImage(c.Request().Context(), userID, &imageURL); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.UploadImageResponse{ProfileImageURL: imageURL})
}

func (h *AccountHandler) ClearImage(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	if _, err := h.Service.SetProfileImage(c.Request().Context(), userID, nil); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) EnableMFA(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	otpauthURL, err := h.Service.EnableMFA(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MFAEnableResponse{OTPAuthURL: otpauthURL})
}

func (h *AccountHandler) VerifyMFA(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	var req dto.MFAVerifyRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.VerifyMFA(c.Request().Context(), userID, req.Code); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) DisableMFA(c echo.Context) error {
	userID, _, err := authContext(c)
	if err != nil {
		return err
	}
	if err := h.Service.DisableMFA(c.Request().Context(), userID); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func authContext(c echo.Context) (uuid.UUID, string, error) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return uuid.Nil, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return userID, sessionID, nil
}
