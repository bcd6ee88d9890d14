package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"talentmatch/internal/extract"

	"github.com/stretchr/testify/require"
)

// scriptedGenerator answers prompts in order.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.calls >= len(g.responses) {
		return "", errors.New("no scripted response left")
	}
	response := g.responses[g.calls]
	g.calls++
	return response, nil
}

func newMatchFixture(gen *scriptedGenerator) *MatchService {
	return NewMatchService(gen, extract.New(nil), time.Second)
}

func TestAnalyzeResume(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`["Go experience", "Kubernetes", "SQL"]`,
		"```json\n[" +
			`{"requirement":"Go experience","met":true,"explanation":"Explanation: five years of Go"},` +
			`{"requirement":"Kubernetes","met":false,"explanation":"no container work listed"},` +
			`{"requirement":"SQL","met":true,"explanation":"postgres on two projects"}` +
			"]\n```",
		`[{"question":"Tell us about Kubernetes","answer":"Mention the migration project"}]`,
	}}
	svc := newMatchFixture(gen)

	resume := strings.NewReader("Five years of Go, postgres on two projects.")
	report, err := svc.AnalyzeResume(context.Background(), "resume.txt", resume, "Backend role needing Go, Kubernetes and SQL")
	require.NoError(t, err)
	require.False(t, report.Degraded)

	require.Len(t, report.Met, 2)
	require.Len(t, report.Missing, 1)
	require.Equal(t, "Kubernetes", report.Missing[0].Requirement)
	// Prefixes like "Explanation:" are stripped from model output.
	require.Equal(t, "five years of Go", report.Met[0].Explanation)
	require.InDelta(t, 66.7, report.Score, 0.1)
	require.Len(t, report.Suggestions, 1)
}

func TestAnalyzeResumeDegradesOnProviderFailure(t *testing.T) {
	svc := newMatchFixture(&scriptedGenerator{err: errors.New("provider down")})

	report, err := svc.AnalyzeResume(context.Background(), "resume.txt", strings.NewReader("text"), "job")
	require.NoError(t, err)
	require.True(t, report.Degraded)
	require.NotEmpty(t, report.DegradedNote)
	require.Empty(t, report.Met)
	require.Empty(t, report.Missing)
}

func TestAnalyzeResumeSuggestionFailureKeepsReport(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`["Go experience"]`,
		`[{"requirement":"Go experience","met":true,"explanation":"yes"}]`,
		// Third call (suggestions) runs out of script and errors.
	}}
	svc := newMatchFixture(gen)

	report, err := svc.AnalyzeResume(context.Background(), "resume.txt", strings.NewReader("Go"), "job needs Go")
	require.NoError(t, err)
	require.False(t, report.Degraded)
	require.Len(t, report.Met, 1)
	require.Empty(t, report.Suggestions)
}

func TestAnalyzeResumeRejectsEmptyInput(t *testing.T) {
	svc := newMatchFixture(&scriptedGenerator{})

	_, err := svc.AnalyzeResume(context.Background(), "resume.txt", strings.NewReader("text"), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AnalyzeResume(context.Background(), "resume.txt", strings.NewReader("   "), "job")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTrends(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		`[{"title":"A","description":"a"},{"title":"B","description":"b"},` +
			`{"title":"C","description":"c"},{"title":"D","description":"d"},{"title":"E","description":"e"}]`,
	}}
	svc := newMatchFixture(gen)

	trends, err := svc.Trends(context.Background(), "Data Engineer", "")
	require.NoError(t, err)
	require.Len(t, trends, 4)
}

func TestTrendsDegradeToEmpty(t *testing.T) {
	svc := newMatchFixture(&scriptedGenerator{err: errors.New("provider down")})
	trends, err := svc.Trends(context.Background(), "Data Engineer", "")
	require.NoError(t, err)
	require.Empty(t, trends)

	// No profession on file means nothing to ask about.
	trends, err = newMatchFixture(&scriptedGenerator{}).Trends(context.Background(), "", "")
	require.NoError(t, err)
	require.Empty(t, trends)
}

func TestParseJSONArrayExtractsFromProse(t *testing.T) {
	var out []string
	err := parseJSONArray("Sure! Here is the list:\n```json\n[\"a\", \"b\"]\n```", &out)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, out)

	require.Error(t, parseJSONArray("no array here", &out))
}

func TestMatchScoreWordOverlapFallback(t *testing.T) {
	score := matchScore(0, 0, "golang postgres kubernetes", "need golang and postgres experience")
	require.Greater(t, score, 0.0)
	require.LessOrEqual(t, score, 100.0)

	require.Equal(t, 0.0, matchScore(0, 0, "text", ""))
}
