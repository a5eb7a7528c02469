package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/ats-analyzer/internal/ai"
	"github.com/spigell/ats-analyzer/internal/skills"
	"github.com/spigell/ats-analyzer/internal/suggest"
)

const (
	scenarioResume = "Experienced Python developer with AWS and Docker skills. 5 years experience."
	scenarioJob    = "Looking for Python developer with AWS, Docker, Kubernetes experience."
)

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

type stubProvider struct {
	analysis *ai.Analysis
	err      error
	block    chan struct{}
}

func (s *stubProvider) Analyze(ctx context.Context, _, _ string) (*ai.Analysis, error) {
	if s.block != nil {
		<-s.block
	}
	return s.analysis, s.err
}

func newTestAnalyzer(t *testing.T, provider ai.SimilarityProvider, log *zap.Logger) *Analyzer {
	t.Helper()

	catalog, err := skills.DefaultCatalog()
	require.NoError(t, err)

	return New(skills.NewMatcher(catalog), provider, Options{
		SimilarityTimeout: 50 * time.Millisecond,
		Now:               func() time.Time { return fixedNow },
		NewID:             func() string { return "test-id" },
	}, log)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, Validate("  ", "job"), ErrEmptyResume)
	assert.ErrorIs(t, Validate("resume", "\n"), ErrEmptyJob)
	assert.NoError(t, Validate("resume", "job"))
}

func TestAnalyzeScenarioWithoutProvider(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(t, nil, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, 43.29, report.ATSScore)
	assert.Equal(t, 35.71, report.ScoreBreakdown.KeywordMatch)
	assert.Equal(t, 45.0, report.ScoreBreakdown.SkillsMatch)
	assert.Equal(t, 60.0, report.ScoreBreakdown.ExperienceMatch)
	assert.Equal(t, 50.0, report.ScoreBreakdown.EducationMatch)
	assert.Equal(t, 37.5, report.ScoreBreakdown.FormatStructure)
	assert.Equal(t, "Very Poor", report.Rating.Level)

	assert.Equal(t, []string{"python", "developer", "aws", "docker", "experience"}, report.KeywordMatch.Matched)
	assert.Equal(t, []string{"looking", "kubernetes"}, report.KeywordMatch.Missing)
	assert.Equal(t, 71.43, report.KeywordMatch.MatchPercentage)
	assert.Equal(t, 7, report.KeywordMatch.TotalJobKeywords)
	assert.Equal(t, 5, report.KeywordMatch.TotalMatched)

	assert.Equal(t, []string{"python", "aws", "docker", "kubernetes"}, report.SkillGap.Required)
	assert.Equal(t, []string{"python", "aws", "docker"}, report.SkillGap.Present)
	assert.Equal(t, []string{"kubernetes"}, report.SkillGap.Missing)
	assert.Equal(t, 75.0, report.SkillGap.MatchPercentage)
	assert.Equal(t, []string{"docker"}, report.SkillGap.Categories[skills.DevOpsTools])

	assert.Equal(t, SectionFlags{Experience: true, Skills: true}, report.Sections)

	assert.Equal(t, StatusSkipped, report.SimilarityStatus)
	assert.Equal(t, 0.0, report.SemanticSimilarity)
	assert.Equal(t, "test-id", report.AnalysisID)
	assert.Equal(t, fixedNow, report.AnalysisTimestamp)

	assert.Equal(t, []string{"looking python", "docker kubernetes", "kubernetes experience"}, report.MissingBigrams)
	assert.Equal(t, 9.09, report.KeywordDensity["python"])
	assert.Len(t, report.KeywordDensity, 5)
	assert.Empty(t, report.MissingConcepts)

	require.Len(t, report.Suggestions, 6)
	assert.Equal(t, suggest.SeverityCritical, report.Suggestions[0].Type)
	assert.Equal(t, "Add these critical keywords: looking, kubernetes", report.Suggestions[1].Message)
	assert.Equal(t, "Missing required skills: kubernetes", report.Suggestions[2].Message)
}

func TestAnalyzeUsesProviderSimilarity(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{analysis: &ai.Analysis{Similarity: 0.8}}
	report, err := newTestAnalyzer(t, provider, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, report.SimilarityStatus)
	assert.Equal(t, 80.0, report.SemanticSimilarity)
	assert.Equal(t, 75.71, report.ScoreBreakdown.KeywordMatch)
	assert.Equal(t, 59.29, report.ATSScore)
	assert.Equal(t, "Poor", report.Rating.Level)
}

func TestAnalyzeRatingMatchesSuggestionsAtTierBoundary(t *testing.T) {
	t.Parallel()

	// Unrounded score is just under 60 but is reported as 60.
	provider := &stubProvider{analysis: &ai.Analysis{Similarity: 0.83548}}
	report, err := newTestAnalyzer(t, provider, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, 60.0, report.ATSScore)
	assert.Equal(t, "Poor", report.Rating.Level)
	require.NotEmpty(t, report.Suggestions)
	assert.Equal(t, suggest.SeverityCritical, report.Suggestions[0].Type)
}

func TestAnalyzeClipsProviderSimilarity(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{analysis: &ai.Analysis{Similarity: 1.7}}
	report, err := newTestAnalyzer(t, provider, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, 100.0, report.SemanticSimilarity)
	assert.LessOrEqual(t, report.ATSScore, 100.0)
}

func TestAnalyzeProviderFailures(t *testing.T) {
	t.Parallel()

	baseline, err := newTestAnalyzer(t, nil, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	tests := []struct {
		name     string
		provider ai.SimilarityProvider
		status   Status
		warned   bool
	}{
		{name: "disabled", provider: ai.Disabled{}, status: StatusSkipped},
		{name: "error", provider: &stubProvider{err: errors.New("quota exceeded")}, status: StatusFailed, warned: true},
		{name: "nil result", provider: &stubProvider{}, status: StatusFailed, warned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			report, err := newTestAnalyzer(t, tt.provider, zap.New(core)).Analyze(context.Background(), scenarioResume, scenarioJob)
			require.NoError(t, err)

			assert.Equal(t, tt.status, report.SimilarityStatus)
			assert.Equal(t, 0.0, report.SemanticSimilarity)
			assert.Equal(t, baseline.ATSScore, report.ATSScore)
			assert.Equal(t, tt.warned, logs.Len() > 0)
		})
	}
}

func TestAnalyzeAbandonsHangingProvider(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	t.Cleanup(func() { close(block) })

	provider := &stubProvider{block: block, analysis: &ai.Analysis{Similarity: 1}}

	started := time.Now()
	report, err := newTestAnalyzer(t, provider, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, report.SimilarityStatus)
	assert.Less(t, time.Since(started), 5*time.Second)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestAnalyzer(t, nil, nil).Analyze(ctx, scenarioResume, scenarioJob)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeMissingConcepts(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{analysis: &ai.Analysis{
		Similarity: 0.5,
		Concepts: ai.Concepts{
			ResumeConcepts: []string{"cloud infrastructure"},
			JobConcepts:    []string{"Cloud Infrastructure", "python developer", "container orchestration"},
		},
	}}

	report, err := newTestAnalyzer(t, provider, nil).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	assert.Equal(t, []string{"container orchestration"}, report.MissingConcepts)
}

func TestAnalyzeEmptyInputsUseNeutralDefaults(t *testing.T) {
	t.Parallel()

	report, err := newTestAnalyzer(t, nil, nil).Analyze(context.Background(), scenarioResume, "")
	require.NoError(t, err)

	assert.Equal(t, 50.0, report.ScoreBreakdown.KeywordMatch)
	assert.Equal(t, 60.0, report.ScoreBreakdown.SkillsMatch)
	assert.Empty(t, report.KeywordMatch.Matched)
	assert.Equal(t, 0.0, report.KeywordMatch.MatchPercentage)
	assert.Equal(t, 0.0, report.SkillGap.MatchPercentage)
	assert.NotNil(t, report.MissingBigrams)
}

func TestAnalyzeCapsReportedLists(t *testing.T) {
	t.Parallel()

	words := []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet",
		"kilo", "lima", "mike", "november", "oscar", "papa", "quebec", "romeo", "sierra", "tango",
		"uniform", "victor", "whiskey", "xray", "yankee", "zulu",
	}
	catalog, err := skills.DefaultCatalog()
	require.NoError(t, err)
	job := strings.Join(words, " ") + " " + strings.Join(catalog.Skills()[:40], ", ")

	report, err := newTestAnalyzer(t, nil, nil).Analyze(context.Background(), "nothing relevant", job)
	require.NoError(t, err)

	assert.Len(t, report.KeywordMatch.Missing, maxReportedKeywords)
	assert.Greater(t, report.KeywordMatch.TotalJobKeywords, maxReportedKeywords)
	assert.Len(t, report.SkillGap.Required, maxReportedSkills)
	assert.Len(t, report.SkillGap.Missing, maxReportedSkills)
	assert.Equal(t, 0.0, report.SkillGap.MatchPercentage)
}

func TestAnalyzeLogsCompletion(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	_, err := newTestAnalyzer(t, nil, zap.New(core)).Analyze(context.Background(), scenarioResume, scenarioJob)
	require.NoError(t, err)

	entries := logs.FilterMessage("analysis complete").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "test-id", fields["analysis_id"])
	assert.Equal(t, 43.29, fields["ats_score"])
}

func TestSplitByPresence(t *testing.T) {
	t.Parallel()

	present, absent := splitByPresence([]string{"c", "a", "b"}, []string{"b", "c"})
	assert.Equal(t, []string{"c", "b"}, present)
	assert.Equal(t, []string{"a"}, absent)
}
