package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spigell/ats-analyzer/internal/analyzer"
	"github.com/spigell/ats-analyzer/internal/ranking"
)

func writeJSONReport(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTextReport(w io.Writer, r *analyzer.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "ATS score: %.2f (%s) - %s\n", r.ATSScore, r.Rating.Level, r.Rating.Message)
	fmt.Fprintf(&b, "Analysis: %s at %s\n\n", r.AnalysisID, r.AnalysisTimestamp.Format("2006-01-02 15:04:05"))

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Keyword match\t%.2f\n", r.ScoreBreakdown.KeywordMatch)
	fmt.Fprintf(tw, "Skills match\t%.2f\n", r.ScoreBreakdown.SkillsMatch)
	fmt.Fprintf(tw, "Experience match\t%.2f\n", r.ScoreBreakdown.ExperienceMatch)
	fmt.Fprintf(tw, "Education match\t%.2f\n", r.ScoreBreakdown.EducationMatch)
	fmt.Fprintf(tw, "Format & structure\t%.2f\n", r.ScoreBreakdown.FormatStructure)
	fmt.Fprintf(tw, "Semantic similarity\t%.2f (%s)\n", r.SemanticSimilarity, r.SimilarityStatus)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(&b, "\nKeywords: %d of %d matched (%.2f%%)\n", r.KeywordMatch.TotalMatched, r.KeywordMatch.TotalJobKeywords, r.KeywordMatch.MatchPercentage)
	writeList(&b, "matched", r.KeywordMatch.Matched)
	writeList(&b, "missing", r.KeywordMatch.Missing)

	fmt.Fprintf(&b, "\nSkills: %.2f%% of required skills present\n", r.SkillGap.MatchPercentage)
	writeList(&b, "required", r.SkillGap.Required)
	writeList(&b, "present", r.SkillGap.Present)
	writeList(&b, "missing", r.SkillGap.Missing)

	if len(r.MissingBigrams) > 0 {
		b.WriteString("\n")
		writeList(&b, "missing phrases", r.MissingBigrams)
	}
	if len(r.MissingConcepts) > 0 {
		writeList(&b, "missing concepts", r.MissingConcepts)
	}

	b.WriteString("\nSections:")
	for _, s := range []struct {
		name    string
		present bool
	}{
		{"contact", r.Sections.Contact},
		{"summary", r.Sections.Summary},
		{"experience", r.Sections.Experience},
		{"education", r.Sections.Education},
		{"skills", r.Sections.Skills},
		{"projects", r.Sections.Projects},
	} {
		mark := "-"
		if s.present {
			mark = "+"
		}
		fmt.Fprintf(&b, " %s%s", mark, s.name)
	}
	b.WriteString("\n")

	if r.Profile.ExperienceYears != nil {
		fmt.Fprintf(&b, "Experience: %d years\n", *r.Profile.ExperienceYears)
	}

	b.WriteString("\nSuggestions:\n")
	for i, s := range r.Suggestions {
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n   %s\n", i+1, s.Type, s.Category, s.Message, s.Action)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "  %s: none\n", label)
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, strings.Join(items, ", "))
}

func writeRanking(w io.Writer, results []ranking.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tJOB\tSCORE\tRATING\tMISSING SKILLS")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\n", i+1, r.Job, r.Report.ATSScore, r.Report.Rating.Level, strings.Join(r.Report.SkillGap.Missing, ", "))
	}
	return tw.Flush()
}

func writeSkills(w io.Writer, db map[string][]string, order []string) error {
	if order == nil {
		for category := range db {
			order = append(order, category)
		}
		sort.Strings(order)
	}

	for _, category := range order {
		if _, err := fmt.Fprintf(w, "%s (%d)\n  %s\n", category, len(db[category]), strings.Join(db[category], ", ")); err != nil {
			return err
		}
	}
	return nil
}
