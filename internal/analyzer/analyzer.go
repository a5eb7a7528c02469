// Package analyzer runs the full resume against job description analysis and
// assembles the report.
package analyzer

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-analyzer/internal/ai"
	"github.com/spigell/ats-analyzer/internal/logger"
	"github.com/spigell/ats-analyzer/internal/scoring"
	"github.com/spigell/ats-analyzer/internal/sections"
	"github.com/spigell/ats-analyzer/internal/skills"
	"github.com/spigell/ats-analyzer/internal/suggest"
	"github.com/spigell/ats-analyzer/internal/textproc"
)

const DefaultSimilarityTimeout = 10 * time.Second

var (
	ErrEmptyResume = errors.New("resume text is empty")
	ErrEmptyJob    = errors.New("job description is empty")
)

// Validate rejects blank documents. The analyzer itself scores them with
// neutral defaults, so callers facing users check inputs first.
func Validate(resumeText, jobText string) error {
	if strings.TrimSpace(resumeText) == "" {
		return ErrEmptyResume
	}
	if strings.TrimSpace(jobText) == "" {
		return ErrEmptyJob
	}
	return nil
}

// Document is one input text in raw and normalized form.
type Document struct {
	Raw        string
	Normalized string
}

func NewDocument(raw string) Document {
	return Document{Raw: raw, Normalized: textproc.Normalize(raw)}
}

type Options struct {
	TopKeywords       int
	TopBigrams        int
	SimilarityTimeout time.Duration
	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

type Analyzer struct {
	matcher  *skills.Matcher
	provider ai.SimilarityProvider
	opts     Options
	logger   *zap.Logger
}

// New builds an Analyzer. A nil provider skips semantic similarity.
func New(matcher *skills.Matcher, provider ai.SimilarityProvider, opts Options, log *zap.Logger) *Analyzer {
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = textproc.DefaultTopKeywords
	}
	if opts.TopBigrams <= 0 {
		opts.TopBigrams = textproc.DefaultTopBigrams
	}
	if opts.SimilarityTimeout <= 0 {
		opts.SimilarityTimeout = DefaultSimilarityTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{matcher: matcher, provider: provider, opts: opts, logger: log}
}

func (a *Analyzer) Catalog() *skills.Catalog {
	return a.matcher.Catalog()
}

type signals struct {
	resumeKeywords []string
	jobKeywords    []string
	resumeSkills   skills.Set
	jobSkills      skills.Set
	sections       sections.Presence
	profile        sections.Profile
	resumeBigrams  []string
	jobBigrams     []string
	analysis       *ai.Analysis
	status         Status
}

// Analyze scores resume against job. It fails only when ctx is done before the
// analysis completes; a failing similarity provider degrades the report instead.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobText string) (*Report, error) {
	started := time.Now()
	now := a.opts.Now()
	id := a.opts.NewID()
	log := logger.WithAnalysis(a.logger, id)

	resume := NewDocument(resumeText)
	job := NewDocument(jobText)

	var s signals
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.resumeKeywords = textproc.ExtractKeywords(resume.Normalized, a.opts.TopKeywords)
		s.jobKeywords = textproc.ExtractKeywords(job.Normalized, a.opts.TopKeywords)
		return nil
	})
	g.Go(func() error {
		s.resumeSkills = a.matcher.Extract(resume.Raw)
		s.jobSkills = a.matcher.Extract(job.Raw)
		return nil
	})
	g.Go(func() error {
		s.sections = sections.Detect(resume.Raw)
		s.profile = sections.ExtractProfile(resume.Raw, now)
		return nil
	})
	g.Go(func() error {
		s.resumeBigrams = textproc.ExtractBigrams(resume.Normalized, math.MaxInt)
		s.jobBigrams = textproc.ExtractBigrams(job.Normalized, a.opts.TopBigrams)
		return nil
	})
	g.Go(func() error {
		s.analysis, s.status = a.similarity(gctx, resume.Normalized, job.Normalized, log)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	similarity := 0.0
	if s.analysis != nil {
		similarity = s.analysis.Similarity
	}

	result := scoring.Score(scoring.Input{
		ResumeText: resume.Raw,
		JobText:    job.Raw,
		Sections:   s.sections,
		Keywords:   scoring.KeywordPair{Resume: s.resumeKeywords, Job: s.jobKeywords},
		Skills:     scoring.SkillPair{Resume: s.resumeSkills, Job: s.jobSkills},
		Similarity: similarity,
	})

	report := a.assemble(&s, result, resume)
	report.AnalysisID = id
	report.AnalysisTimestamp = now

	log.Info("analysis complete",
		zap.Float64(logger.FieldScore, report.ATSScore),
		zap.String("similarity_status", string(report.SimilarityStatus)),
		zap.Duration("duration", time.Since(started)),
	)

	return report, nil
}

func (a *Analyzer) assemble(s *signals, result scoring.Result, resume Document) *Report {
	catalog := a.matcher.Catalog()

	matchedKeywords, missingKeywords := splitByPresence(s.jobKeywords, s.resumeKeywords)
	keywordPercentage := 0.0
	if len(s.jobKeywords) > 0 {
		keywordPercentage = float64(len(matchedKeywords)) / float64(len(s.jobKeywords)) * 100
	}

	gap := catalog.FindGaps(s.resumeSkills, s.jobSkills)
	score := scoring.Round2(result.Score)

	density := make(map[string]float64)
	for _, keyword := range head(matchedKeywords, maxDensityKeywords) {
		density[keyword] = textproc.KeywordDensity(resume.Normalized, keyword)
	}

	_, missingBigrams := splitByPresence(s.jobBigrams, s.resumeBigrams)

	similarity := 0.0
	if s.analysis != nil {
		similarity = s.analysis.Similarity
	}

	report := &Report{
		ATSScore:       score,
		ScoreBreakdown: result.Breakdown,
		Rating:         suggest.Rate(result.Score),
		KeywordMatch: KeywordMatch{
			Matched:          head(matchedKeywords, maxReportedKeywords),
			Missing:          head(missingKeywords, maxReportedKeywords),
			MatchPercentage:  scoring.Round2(keywordPercentage),
			TotalJobKeywords: len(s.jobKeywords),
			TotalMatched:     len(matchedKeywords),
		},
		SkillGap: SkillGap{
			Required:        head(catalog.Ordered(s.jobSkills), maxReportedSkills),
			Present:         head(gap.Matched, maxReportedSkills),
			Missing:         head(gap.Missing, maxReportedSkills),
			MatchPercentage: scoring.Round2(gap.MatchPercentage),
			Categories:      catalog.Categorize(s.resumeSkills.Intersect(s.jobSkills)),
		},
		Sections:           flagsOf(s.sections),
		Suggestions:        suggest.Generate(result.Score, missingKeywords, gap.Missing, s.sections),
		SemanticSimilarity: scoring.Round2(similarity * 100),
		SimilarityStatus:   s.status,
		Profile:            s.profile,
		KeywordDensity:     density,
		MissingBigrams:     missingBigrams,
	}

	if s.analysis != nil && len(s.analysis.JobConcepts) > 0 {
		report.MissingConcepts = missingConcepts(s.analysis, resume.Normalized)
	}

	return report
}

// similarity calls the provider under the configured timeout. A provider that
// ignores its context is abandoned when the timeout fires.
func (a *Analyzer) similarity(ctx context.Context, resumeText, jobText string, log *zap.Logger) (*ai.Analysis, Status) {
	if a.provider == nil {
		return nil, StatusSkipped
	}

	ctx, cancel := context.WithTimeout(ctx, a.opts.SimilarityTimeout)
	defer cancel()

	type outcome struct {
		analysis *ai.Analysis
		err      error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := a.provider.Analyze(ctx, resumeText, jobText)
		done <- outcome{analysis: res, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	switch {
	case errors.Is(out.err, ai.ErrDisabled):
		return nil, StatusSkipped
	case out.err != nil:
		log.Warn("semantic similarity unavailable", zap.Error(out.err))
		return nil, StatusFailed
	case out.analysis == nil:
		log.Warn("semantic similarity provider returned no result")
		return nil, StatusFailed
	}

	res := *out.analysis
	res.Similarity = clipUnit(res.Similarity)
	return &res, StatusOK
}

// splitByPresence partitions want into the items found in have and the rest,
// keeping the order of want.
func splitByPresence(want, have []string) (present, absent []string) {
	index := make(map[string]struct{}, len(have))
	for _, item := range have {
		index[item] = struct{}{}
	}

	present = make([]string, 0, len(want))
	absent = make([]string, 0, len(want))
	for _, item := range want {
		if _, ok := index[item]; ok {
			present = append(present, item)
		} else {
			absent = append(absent, item)
		}
	}
	return present, absent
}

func missingConcepts(analysis *ai.Analysis, normalizedResume string) []string {
	resumeConcepts := make(map[string]struct{}, len(analysis.ResumeConcepts))
	for _, c := range analysis.ResumeConcepts {
		resumeConcepts[textproc.Normalize(c)] = struct{}{}
	}

	padded := " " + normalizedResume + " "
	out := make([]string, 0, len(analysis.JobConcepts))
	for _, c := range analysis.JobConcepts {
		norm := textproc.Normalize(c)
		if norm == "" {
			continue
		}
		if _, ok := resumeConcepts[norm]; ok {
			continue
		}
		if strings.Contains(padded, " "+norm+" ") {
			continue
		}
		out = append(out, c)
		if len(out) == maxReportedConcepts {
			break
		}
	}
	return out
}

func clipUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
