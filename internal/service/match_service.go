package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strings"
	"time"

	"talentmatch/internal/ai"
	"talentmatch/internal/extract"

	"github.com/sirupsen/logrus"
)

const maxTrends = 4

// RequirementMatch is one job requirement judged against the resume.
type RequirementMatch struct {
	Requirement string `json:"requirement"`
	Met         bool   `json:"met"`
	Explanation string `json:"explanation,omitempty"`
}

type QASuggestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MatchReport is the analysis returned for an uploaded resume. When the AI
// provider fails the report carries Degraded plus a note instead of surfacing
// a server error.
type MatchReport struct {
	Score        float64            `json:"score"`
	Met          []RequirementMatch `json:"met_requirements"`
	Missing      []RequirementMatch `json:"missing_requirements"`
	Suggestions  []QASuggestion     `json:"qa_suggestions"`
	Degraded     bool               `json:"degraded,omitempty"`
	DegradedNote string             `json:"degraded_note,omitempty"`
}

type Trend struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MatchService runs resume-to-job-description analysis through a text
// generator. All provider failures degrade in place; callers never see them
// as errors.
type MatchService struct {
	generator ai.Generator
	extractor extract.Extractor
	timeout   time.Duration
}

func NewMatchService(generator ai.Generator, extractor extract.Extractor, timeout time.Duration) *MatchService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MatchService{generator: generator, extractor: extractor, timeout: timeout}
}

func (s *MatchService) AnalyzeResume(ctx context.Context, filename string, file io.Reader, jobDescription string) (*MatchReport, error) {
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, ErrInvalidInput
	}
	resumeText, err := s.extractor.Extract(filename, file)
	if err != nil {
		return nil, fmt.Errorf("extract resume: %w", err)
	}
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, ErrInvalidInput
	}

	if s.generator == nil {
		return degradedReport("analysis service is not configured"), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	requirements, err := s.extractRequirements(ctx, jobDescription)
	if err != nil {
		logrus.WithError(err).Warn("extract job requirements")
		return degradedReport("analysis is temporarily unavailable"), nil
	}
	if len(requirements) == 0 {
		return degradedReport("no requirements could be identified in the job description"), nil
	}

	matches, err := s.matchRequirements(ctx, resumeText, requirements)
	if err != nil {
		logrus.WithError(err).Warn("match resume against requirements")
		return degradedReport("analysis is temporarily unavailable"), nil
	}

	report := &MatchReport{
		Met:     make([]RequirementMatch, 0, len(matches)),
		Missing: make([]RequirementMatch, 0),
	}
	for _, match := range matches {
		match.Explanation = cleanExplanation(match.Explanation)
		if match.Met {
			report.Met = append(report.Met, match)
		} else {
			report.Missing = append(report.Missing, match)
		}
	}
	report.Score = matchScore(len(report.Met), len(matches), resumeText, jobDescription)

	// Q&A suggestions are a nice-to-have; their failure does not degrade the
	// rest of the report.
	suggestions, err := s.suggestQA(ctx, resumeText, jobDescription, report.Missing)
	if err != nil {
		logrus.WithError(err).Warn("generate interview suggestions")
		suggestions = nil
	}
	report.Suggestions = suggestions
	if report.Suggestions == nil {
		report.Suggestions = []QASuggestion{}
	}
	return report, nil
}

// Trends returns up to four short career trend items for a profession. Any
// failure collapses to an empty list.
func (s *MatchService) Trends(ctx context.Context, profession string, bio string) ([]Trend, error) {
	profession = strings.TrimSpace(profession)
	if profession == "" || s.generator == nil {
		return []Trend{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(`List the most important current industry trends for a %q professional.%s
Return ONLY a JSON array of at most %d objects, each with "title" and "description" keys. No markdown, no commentary.`,
		profession, bioClause(bio), maxTrends)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("generate career trends")
		return []Trend{}, nil
	}

	var trends []Trend
	if err := parseJSONArray(raw, &trends); err != nil {
		logrus.WithError(err).Warn("parse career trends")
		return []Trend{}, nil
	}
	if len(trends) > maxTrends {
		trends = trends[:maxTrends]
	}
	return trends, nil
}

func (s *MatchService) extractRequirements(ctx context.Context, jobDescription string) ([]string, error) {
	prompt := fmt.Sprintf(`Extract the distinct requirements from the following job description.
Return ONLY a JSON array of strings, one requirement each. No markdown, no commentary.

Job description:
%s`, jobDescription)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var requirements []string
	if err := parseJSONArray(raw, &requirements); err != nil {
		return nil, err
	}
	out := requirements[:0]
	for _, requirement := range requirements {
		if trimmed := strings.TrimSpace(requirement); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

func (s *MatchService) matchRequirements(ctx context.Context, resumeText string, requirements []string) ([]RequirementMatch, error) {
	encoded, err := json.Marshal(requirements)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`For each requirement below, decide whether the resume satisfies it.
Return ONLY a JSON array of objects with keys "requirement", "met" (boolean) and "explanation" (one sentence). No markdown, no commentary.

Requirements:
%s

Resume:
%s`, string(encoded), resumeText)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var matches []RequirementMatch
	if err := parseJSONArray(raw, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *MatchService) suggestQA(ctx context.Context, resumeText string, jobDescription string, missing []RequirementMatch) ([]QASuggestion, error) {
	gaps := make([]string, 0, len(missing))
	for _, m := range missing {
		gaps = append(gaps, m.Requirement)
	}
	encoded, err := json.Marshal(gaps)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(`Suggest interview questions the candidate should prepare for, with a short model answer grounded in their resume, focused on these gaps: %s
Return ONLY a JSON array of at most 5 objects with "question" and "answer" keys. No markdown, no commentary.

Job description:
%s

Resume:
%s`, string(encoded), jobDescription, resumeText)

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var suggestions []QASuggestion
	if err := parseJSONArray(raw, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

func degradedReport(note string) *MatchReport {
	return &MatchReport{
		Met:          []RequirementMatch{},
		Missing:      []RequirementMatch{},
		Suggestions:  []QASuggestion{},
		Degraded:     true,
		DegradedNote: note,
	}
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// parseJSONArray tolerates models that wrap their output in code fences or
// prose by extracting the outermost JSON array first.
func parseJSONArray(raw string, dst any) error {
	raw = strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(raw), dst); err == nil {
		return nil
	}
	extracted := jsonArrayPattern.FindString(raw)
	if extracted == "" {
		return fmt.Errorf("no JSON array in model output")
	}
	return json.Unmarshal([]byte(extracted), dst)
}

var explanationPrefix = regexp.MustCompile(`(?i)^(explanation|reason|answer)\s*[:\-]\s*`)

func cleanExplanation(explanation string) string {
	explanation = strings.TrimSpace(explanation)
	explanation = strings.Trim(explanation, "`")
	explanation = explanationPrefix.ReplaceAllString(explanation, "")
	return strings.Join(strings.Fields(explanation), " ")
}

// matchScore is the met-to-total ratio as a percentage. When the model judged
// nothing, it falls back to plain word overlap between the two texts.
func matchScore(met, total int, resumeText, jobDescription string) float64 {
	if total > 0 {
		return math.Round(float64(met)/float64(total)*1000) / 10
	}
	resumeWords := wordSet(resumeText)
	jobWords := wordSet(jobDescription)
	if len(jobWords) == 0 {
		return 0
	}
	shared := 0
	for word := range jobWords {
		if resumeWords[word] {
			shared++
		}
	}
	return math.Round(float64(shared)/float64(len(jobWords))*1000) / 10
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()[]{}\"'")
		if len(word) > 2 {
			set[word] = true
		}
	}
	return set
}

func bioClause(bio string) string {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return ""
	}
	return fmt.Sprintf(" Their background: %s.", bio)
}
