// Package scoring combines keyword, skill, experience, education and format signals into a weighted 0-100 score.
package scoring

import (
	"math"
	"strings"

	"github.com/spigell/ats-analyzer/internal/sections"
	"github.com/spigell/ats-analyzer/internal/skills"
)

// Component weights. They sum to exactly 1.0.
const (
	WeightKeyword    = 0.40
	WeightSkills     = 0.25
	WeightExperience = 0.15
	WeightEducation  = 0.10
	WeightFormat     = 0.10
)

// Neutral component values used when the job offers nothing to compare against.
const (
	NeutralKeywordScore = 0.5
	NeutralSkillsScore  = 0.6

	baseExperienceScore = 0.5
	baseEducationScore  = 0.5
	extraSkillsCap      = 10
)

var (
	experienceTerms    = []string{"years", "experience", "worked", "developed"}
	degreeTerms        = []string{"bachelor", "master", "phd", "doctorate", "mba"}
	certificationTerms = []string{"certified", "certification", "license"}

	essentialSections = []sections.Name{sections.Contact, sections.Experience, sections.Education}
	importantSections = []sections.Name{sections.Skills, sections.Summary}
)

// KeywordPair holds the keyword lists of both documents.
type KeywordPair struct {
	Resume []string
	Job    []string
}

// SkillPair holds the skill sets of both documents.
type SkillPair struct {
	Resume skills.Set
	Job    skills.Set
}

// Input carries every signal the aggregator needs.
type Input struct {
	ResumeText string
	JobText    string
	Sections   sections.Presence
	Keywords   KeywordPair
	Skills     SkillPair
	// Similarity is the semantic similarity of the two documents in [0,1].
	Similarity float64
}

// Components are the five signal scores, each in [0,1].
type Components struct {
	Keyword    float64
	Skills     float64
	Experience float64
	Education  float64
	Format     float64
}

// Breakdown is the reported score: components and aggregate as percentages
// rounded to two decimals.
type Breakdown struct {
	KeywordMatch    float64 `json:"keyword_match"`
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	FormatStructure float64 `json:"format_structure"`
}

// Result is the outcome of Score.
type Result struct {
	// Score is the unrounded aggregate in [0,100].
	Score      float64
	Components Components
	Breakdown  Breakdown
}

// Score evaluates every component and their weighted sum.
func Score(in Input) Result {
	c := Components{
		Keyword:    KeywordScore(in.Keywords, in.Similarity),
		Skills:     SkillsScore(in.Skills),
		Experience: ExperienceScore(in.ResumeText, in.JobText),
		Education:  EducationScore(in.ResumeText, in.JobText),
		Format:     FormatScore(in.Sections),
	}

	return Result{
		Score:      c.Aggregate(),
		Components: c,
		Breakdown: Breakdown{
			KeywordMatch:    Round2(c.Keyword * 100),
			SkillsMatch:     Round2(c.Skills * 100),
			ExperienceMatch: Round2(c.Experience * 100),
			EducationMatch:  Round2(c.Education * 100),
			FormatStructure: Round2(c.Format * 100),
		},
	}
}

// Aggregate returns the weighted sum of the components scaled to [0,100].
func (c Components) Aggregate() float64 {
	total := clip(c.Keyword)*WeightKeyword +
		clip(c.Skills)*WeightSkills +
		clip(c.Experience)*WeightExperience +
		clip(c.Education)*WeightEducation +
		clip(c.Format)*WeightFormat

	return total * 100
}

// KeywordScore blends the exact keyword overlap with the semantic similarity.
func KeywordScore(k KeywordPair, similarity float64) float64 {
	if len(k.Job) == 0 {
		return NeutralKeywordScore
	}

	resume := make(map[string]struct{}, len(k.Resume))
	for _, kw := range k.Resume {
		resume[kw] = struct{}{}
	}

	job := make(map[string]struct{}, len(k.Job))
	matched := 0
	for _, kw := range k.Job {
		if _, dup := job[kw]; dup {
			continue
		}
		job[kw] = struct{}{}
		if _, ok := resume[kw]; ok {
			matched++
		}
	}

	ratio := math.Min(float64(matched)/float64(len(k.Job)), 1)

	return clip(0.5*ratio + 0.5*clip(similarity))
}

// SkillsScore rewards required skills and, to a lesser degree, additional ones.
func SkillsScore(s SkillPair) float64 {
	if s.Job.Len() == 0 {
		return NeutralSkillsScore
	}

	matched := s.Resume.Intersect(s.Job).Len()
	extra := s.Resume.Difference(s.Job).Len()

	required := math.Min(float64(matched)/float64(s.Job.Len()), 1)
	additional := math.Min(float64(extra)/extraSkillsCap, 1)

	return clip(0.6*required + 0.4*additional)
}

// ExperienceScore adds 0.1 for every experience term found in both texts.
func ExperienceScore(resumeText, jobText string) float64 {
	resume := strings.ToLower(resumeText)
	job := strings.ToLower(jobText)

	score := baseExperienceScore
	for _, term := range experienceTerms {
		if strings.Contains(resume, term) && strings.Contains(job, term) {
			score += 0.1
		}
	}

	return clip(score)
}

// EducationScore awards a degree bonus and a certification bonus.
//
// Degree terms are scanned in fixed order; the first term present in both texts
// earns 0.3 and ends the scan, so several shared degrees still earn one bonus.
func EducationScore(resumeText, jobText string) float64 {
	resume := strings.ToLower(resumeText)
	job := strings.ToLower(jobText)

	score := baseEducationScore
	for _, degree := range degreeTerms {
		if strings.Contains(job, degree) && strings.Contains(resume, degree) {
			score += 0.3
			break
		}
	}

	for _, term := range certificationTerms {
		if strings.Contains(resume, term) && strings.Contains(job, term) {
			score += 0.2
			break
		}
	}

	return clip(score)
}

// FormatScore rewards essential (0.25 each) and important (0.125 each) sections.
func FormatScore(p sections.Presence) float64 {
	score := 0.0
	for _, name := range essentialSections {
		if p.Has(name) {
			score += 0.25
		}
	}
	for _, name := range importantSections {
		if p.Has(name) {
			score += 0.125
		}
	}

	return clip(score)
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clip(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
