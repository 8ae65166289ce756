package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/levelup/internal/database"
	"github.com/example/levelup/internal/excel"
)

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export fact weights and round results to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := loadPool(ctx, database.NewWeightRepository(db))
		if err != nil {
			return err
		}
		results, err := database.NewResultRepository(db).List(ctx, 0)
		if err != nil {
			return err
		}
		if err := excel.ExportWeights(p, results, args[0]); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Exported %d facts and %d rounds to %s\n", p.Len(), len(results), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
