package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/textproc"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords FILE|-",
	Short: "List the most frequent keywords of a document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runKeywords(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)

	keywordsCmd.Flags().IntP("top", "n", textproc.DefaultTopKeywords, "number of keywords to list")
	keywordsCmd.Flags().Bool("bigrams", false, "list the most frequent word pairs as well")
	keywordsCmd.Flags().Bool("density", false, "show the density of every keyword in percent")
}

func runKeywords(cmd *cobra.Command, path string) {
	logger, _ := setup()

	top, _ := cmd.Flags().GetInt("top")
	withBigrams, _ := cmd.Flags().GetBool("bigrams")
	withDensity, _ := cmd.Flags().GetBool("density")

	text, err := readInput(path, os.Stdin)
	if err != nil {
		logger.Fatal("reading document", zap.Error(err))
	}
	if strings.TrimSpace(text) == "" {
		logger.Fatal("document is empty", zap.String("file", path))
	}

	normalized := textproc.Normalize(text)
	out := cmd.OutOrStdout()

	for _, keyword := range textproc.ExtractKeywords(normalized, top) {
		if withDensity {
			fmt.Fprintf(out, "%s\t%.2f%%\n", keyword, textproc.KeywordDensity(normalized, keyword))
			continue
		}
		fmt.Fprintln(out, keyword)
	}

	if withBigrams {
		fmt.Fprintln(out)
		for _, bigram := range textproc.ExtractBigrams(normalized, textproc.DefaultTopBigrams) {
			fmt.Fprintln(out, bigram)
		}
	}
}
