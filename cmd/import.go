package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/levelup/internal/database"
	"github.com/example/levelup/internal/excel"
)

var importConfig = excel.DefaultImportConfig()

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx|file.csv>",
	Short: "Import fact weights from an Excel or CSV file",
	Long: `Import fact weights from an Excel or CSV file. Each row holds a fact
key such as "7x8" and a weight. Weights are clamped into the valid range,
rows that cannot be read are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		config := importConfig
		config.FilePath = args[0]
		result, err := importWeights(cmd.Context(), database.NewWeightRepository(db), config)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Processed %d rows: %d updated, %d skipped\n",
			result.TotalProcessed, result.Updated, result.Skipped)
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "⚠️ %s\n", msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importConfig.SheetName, "sheet", importConfig.SheetName, "sheet to read (Excel only)")
	importCmd.Flags().StringVar(&importConfig.KeyColumn, "key-column", importConfig.KeyColumn, "column holding the fact key")
	importCmd.Flags().StringVar(&importConfig.WeightColumn, "weight-column", importConfig.WeightColumn, "column holding the weight")
	importCmd.Flags().IntVar(&importConfig.StartRow, "start-row", importConfig.StartRow, "first row to read (1-based)")
}

// importWeights merges the file into the stored weights. Nothing is written
// unless the stored weights load cleanly.
func importWeights(ctx context.Context, repo *database.WeightRepository, config excel.ImportConfig) (*excel.ImportResult, error) {
	p, err := loadPool(ctx, repo)
	if err != nil {
		return nil, err
	}
	result, err := excel.ImportWeights(config, p)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return result, nil
}
