package handler

import (
	"errors"
	"net/http"
	"strings"

	"talentmatch/api/middleware"
	"talentmatch/internal/dto"
	"talentmatch/internal/service"

	"github.com/labstack/echo/v4"
)

const maxResumeBytes = 10 << 20

type MatchHandler struct {
	Match *service.MatchService
	Auth  *service.AuthService
}

func NewMatchHandler(match *service.MatchService, auth *service.AuthService) *MatchHandler {
	return &MatchHandler{Match: match, Auth: auth}
}

// UploadResume analyzes a resume against a job description. Provider failures
// come back inside the report, never as a server error.
func (h *MatchHandler) UploadResume(c echo.Context) error {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("resume file is required"))
	}
	if fileHeader.Size > maxResumeBytes {
		return writeError(c, http.StatusBadRequest, errors.New("resume exceeds the 10MB limit"))
	}
	jobDescription := strings.TrimSpace(c.FormValue("job_description"))
	if jobDescription == "" {
		return writeError(c, http.StatusBadRequest, errors.New("job_description is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	defer file.Close()

	report, err := h.Match.AnalyzeResume(c.Request().Context(), fileHeader.Filename, file, jobDescription)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MatchReportResponseFromService(report))
}

// Trends reports career trends for the caller's profession. No profession on
// file, or any provider failure, yields an empty list.
func (h *MatchHandler) Trends(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.Auth.GetCurrentUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	if user == nil {
		return writeError(c, http.StatusNotFound, errors.New("user not found"))
	}

	profession := ""
	if user.Profession != nil {
		profession = *user.Profession
	}
	bio := ""
	if user.Bio != nil {
		bio = *user.Bio
	}
	trends, err := h.Match.Trends(c.Request().Context(), profession, bio)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.TrendsResponse{Trends: trends})
}
