package dto

import "talentmatch/internal/service"

type MatchReportResponse struct {
	Score        float64                    `json:"score"`
	Met          []service.RequirementMatch `json:"met_requirements"`
	Missing      []service.RequirementMatch `json:"missing_requirements"`
	Suggestions  []service.QASuggestion     `json:"qa_suggestions"`
	Degraded     bool                       `json:"degraded,omitempty"`
	DegradedNote string                     `json:"degraded_note,omitempty"`
}

func MatchReportResponseFromService(report *service.MatchReport) MatchReportResponse {
	return MatchReportResponse{
		Score:        report.Score,
		Met:          report.Met,
		Missing:      report.Missing,
		Suggestions:  report.Suggestions,
		Degraded:     report.Degraded,
		DegradedNote: report.DegradedNote,
	}
}

type TrendsResponse struct {
	Trends []service.Trend `json:"trends"`
}

type UploadImageResponse struct {
	ProfileImageURL string `json:"profile_image_url"`
}
