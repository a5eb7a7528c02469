package analyzer

import (
	"time"

	"github.com/spigell/ats-analyzer/internal/scoring"
	"github.com/spigell/ats-analyzer/internal/sections"
	"github.com/spigell/ats-analyzer/internal/skills"
	"github.com/spigell/ats-analyzer/internal/suggest"
)

// Display caps. Scores and percentages are computed on the full lists.
const (
	maxReportedKeywords = 20
	maxReportedSkills   = 15
	maxDensityKeywords  = 10
	maxReportedConcepts = 20
)

// Status tells how the semantic similarity was obtained.
type Status string

const (
	StatusOK      Status = "ok"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Report is the outcome of one analysis.
type Report struct {
	ATSScore           float64              `json:"ats_score"`
	ScoreBreakdown     scoring.Breakdown    `json:"score_breakdown"`
	Rating             suggest.Rating       `json:"rating"`
	KeywordMatch       KeywordMatch         `json:"keyword_match"`
	SkillGap           SkillGap             `json:"skill_gap"`
	Sections           SectionFlags         `json:"sections"`
	Suggestions        []suggest.Suggestion `json:"suggestions"`
	SemanticSimilarity float64              `json:"semantic_similarity"`
	SimilarityStatus   Status               `json:"similarity_status"`
	AnalysisID         string               `json:"analysis_id"`
	AnalysisTimestamp  time.Time            `json:"analysis_timestamp"`
	Profile            sections.Profile     `json:"profile"`
	KeywordDensity     map[string]float64   `json:"keyword_density"`
	MissingBigrams     []string             `json:"missing_bigrams"`
	MissingConcepts    []string             `json:"missing_concepts,omitempty"`
}

type KeywordMatch struct {
	Matched          []string `json:"matched"`
	Missing          []string `json:"missing"`
	MatchPercentage  float64  `json:"match_percentage"`
	TotalJobKeywords int      `json:"total_job_keywords"`
	TotalMatched     int      `json:"total_matched"`
}

type SkillGap struct {
	Required        []string                     `json:"required"`
	Present         []string                     `json:"present"`
	Missing         []string                     `json:"missing"`
	MatchPercentage float64                      `json:"match_percentage"`
	Categories      map[skills.Category][]string `json:"categories"`
}

// SectionFlags are the resume sections shown in a report.
type SectionFlags struct {
	Contact    bool `json:"contact"`
	Summary    bool `json:"summary"`
	Experience bool `json:"experience"`
	Education  bool `json:"education"`
	Skills     bool `json:"skills"`
	Projects   bool `json:"projects"`
}

func flagsOf(p sections.Presence) SectionFlags {
	return SectionFlags{
		Contact:    p.Contact,
		Summary:    p.Summary,
		Experience: p.Experience,
		Education:  p.Education,
		Skills:     p.Skills,
		Projects:   p.Projects,
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
