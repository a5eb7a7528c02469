// Package ranking scores one resume against many job descriptions.
package ranking

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-analyzer/internal/analyzer"
)

const DefaultConcurrency = 4

// Job is a named job description.
type Job struct {
	Name        string
	Description string
}

type Options struct {
	// MinScore drops jobs scoring below it.
	MinScore    float64
	Concurrency int
	Logger      *zap.Logger
}

// Result is the analysis of one job.
type Result struct {
	Job    string           `json:"job"`
	Report *analyzer.Report `json:"report"`
}

type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobText string) (*analyzer.Report, error)
}

// Rank analyzes resume against every job and returns the results that reach
// the minimum score, best first. Equal scores are ordered by job name. Jobs with
// a blank description are skipped.
func Rank(ctx context.Context, a Analyzer, resume string, jobs []Job, opts Options) ([]Result, error) {
	if strings.TrimSpace(resume) == "" {
		return nil, analyzer.ErrEmptyResume
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	reports := make([]*analyzer.Report, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		if strings.TrimSpace(job.Description) == "" {
			log.Warn("skip job with empty description", zap.String("job", job.Name))
			continue
		}
		g.Go(func() error {
			report, err := a.Analyze(gctx, resume, job.Description)
			if err != nil {
				return fmt.Errorf("analyze job %q: %w", job.Name, err)
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(jobs))
	for i, report := range reports {
		if report == nil {
			continue
		}
		if report.ATSScore < opts.MinScore {
			log.Debug("job below minimum score",
				zap.String("job", jobs[i].Name),
				zap.Float64("score", report.ATSScore),
				zap.Float64("threshold", opts.MinScore),
			)
			continue
		}
		results = append(results, Result{Job: jobs[i].Name, Report: report})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Report.ATSScore != results[j].Report.ATSScore {
			return results[i].Report.ATSScore > results[j].Report.ATSScore
		}
		return results[i].Job < results[j].Job
	})

	return results, nil
}

// LoadJobs reads every regular file of dir with one of exts (all files when exts
// is empty) as a job description named after the file.
func LoadJobs(dir string, exts ...string) ([]Job, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read jobs directory: %w", err)
	}

	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var jobs []Job
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if len(allowed) > 0 {
			if _, ok := allowed[strings.ToLower(filepath.Ext(name))]; !ok {
				continue
			}
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read job %q: %w", name, err)
		}
		jobs = append(jobs, Job{Name: name, Description: string(data)})
	}

	return jobs, nil
}
