package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/ranking"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank the job descriptions of a directory against one resume",
	Run: func(cmd *cobra.Command, _ []string) {
		runRank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("resume", "r", "", "plain text resume file, - for stdin")
	rankCmd.Flags().String("jobs", "", "directory with one job description per file")
	rankCmd.Flags().StringSlice("ext", []string{".txt", ".md"}, "job file extensions to read, empty for all files")
	rankCmd.Flags().Float64("min-score", 0, "drop jobs scoring below this value")
	rankCmd.Flags().StringP("output", "o", outputText, "output format: text or json")

	rankCmd.MarkFlagRequired("resume")
	rankCmd.MarkFlagRequired("jobs")
}

func runRank(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	resumePath, _ := cmd.Flags().GetString("resume")
	jobsDir, _ := cmd.Flags().GetString("jobs")
	exts, _ := cmd.Flags().GetStringSlice("ext")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	output, _ := cmd.Flags().GetString("output")

	resumeText, err := readInput(resumePath, os.Stdin)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}

	jobs, err := ranking.LoadJobs(jobsDir, normalizeExts(exts)...)
	if err != nil {
		logger.Fatal("loading job descriptions", zap.Error(err))
	}
	if len(jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no job descriptions found"), zap.String("dir", jobsDir))
		return
	}

	logger.Info("ranking jobs", zap.Int("count", len(jobs)), zap.Float64("min_score", minScore))

	a, err := buildAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	results, err := ranking.Rank(ctx, a, resumeText, jobs, ranking.Options{
		MinScore:    minScore,
		Concurrency: config.Analysis.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("ranking jobs", zap.Error(err))
	}

	if output == outputJSON {
		err = writeJSONReport(cmd.OutOrStdout(), results)
	} else {
		err = writeRanking(cmd.OutOrStdout(), results)
	}
	if err != nil {
		logger.Fatal("writing ranking", zap.Error(err))
	}
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
