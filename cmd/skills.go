package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-analyzer/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Print the skill catalog",
	Run: func(cmd *cobra.Command, _ []string) {
		runSkills(cmd)
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)

	skillsCmd.Flags().StringP("category", "c", "", "print only this category")
	skillsCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
}

func runSkills(cmd *cobra.Command) {
	logger, config := setup()

	category, _ := cmd.Flags().GetString("category")
	output, _ := cmd.Flags().GetString("output")

	catalog, err := skills.LoadCatalog(config.CatalogFile)
	if err != nil {
		logger.Fatal("loading skill catalog", zap.Error(err))
	}

	db := catalog.Database()
	order := make([]string, 0, len(db))
	for _, c := range catalog.Categories() {
		order = append(order, string(c))
	}

	if category != "" {
		if _, ok := db[category]; !ok {
			logger.Fatal("unknown skill category", zap.String("category", category), zap.Strings("known", order))
		}
		db = map[string][]string{category: db[category]}
		order = []string{category}
	}

	if output == outputJSON {
		err = writeJSONReport(cmd.OutOrStdout(), db)
	} else {
		err = writeSkills(cmd.OutOrStdout(), db, order)
	}
	if err != nil {
		logger.Fatal("writing skills", zap.Error(err))
	}
}
