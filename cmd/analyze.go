package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/analyzer"
)

const (
	PromptPrintJSON  = "Print JSON report"
	PromptReportFile = "Dump report to file"
	PromptExit       = "Exit"

	outputJSON = "json"
	outputText = "text"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptPrintJSON, PromptReportFile, PromptExit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Example: "  ats-analyzer analyze --resume resume.txt --job job.txt\n" +
		"  cat job.txt | ats-analyzer analyze --resume resume.txt --job - --output json --yes",
	Run: func(cmd *cobra.Command, _ []string) {
		runAnalyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "plain text resume file, - for stdin")
	analyzeCmd.Flags().StringP("job", "J", "", "plain text job description file, - for stdin")
	analyzeCmd.Flags().StringP("output", "o", outputText, "report format: text or json")
	analyzeCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after the report")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("job")
}

func runAnalyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, config := setup()

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	output, _ := cmd.Flags().GetString("output")
	autoApprove, _ := cmd.Flags().GetBool("yes")

	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}
	if resumePath == "-" && jobPath == "-" {
		logger.Fatal("only one of --resume and --job can be read from stdin")
	}

	resumeText, err := readInput(resumePath, os.Stdin)
	if err != nil {
		logger.Fatal("reading resume", zap.Error(err))
	}
	jobText, err := readInput(jobPath, os.Stdin)
	if err != nil {
		logger.Fatal("reading job description", zap.Error(err))
	}

	if err := analyzer.Validate(resumeText, jobText); err != nil {
		logger.Fatal("invalid input", zap.Error(err))
	}

	a, err := buildAnalyzer(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the analyzer", zap.Error(err))
	}

	report, err := a.Analyze(ctx, resumeText, jobText)
	if err != nil {
		logger.Fatal("analyzing", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	if output == outputJSON {
		err = writeJSONReport(out, report)
	} else {
		err = writeTextReport(out, report)
	}
	if err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}

	// stdin is consumed by the documents, so the menu cannot read answers from it
	if autoApprove || resumePath == "-" || jobPath == "-" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, cmd, logger, report); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, cmd *cobra.Command, logger *zap.Logger, report *analyzer.Report) error {
	switch action {
	case PromptPrintJSON:
		return writeJSONReport(cmd.OutOrStdout(), report)
	case PromptReportFile:
		filename, err := dumpToTmpFile(report)
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func dumpToTmpFile(report *analyzer.Report) (string, error) {
	file, err := os.CreateTemp("", "ats_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", err
	}
	return file.Name(), nil
}
