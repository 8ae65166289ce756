package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/levelup/internal/database"
	"github.com/example/levelup/internal/render"
)

var (
	statsHardest int
	statsRecent  int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show round statistics and the facts that need practice",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := database.NewStatisticsRepository(db).Summary(ctx)
		if err != nil {
			return err
		}
		p, err := loadPool(ctx, database.NewWeightRepository(db))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, render.Statistics(stats, p.Hardest(statsHardest)))

		if statsRecent <= 0 {
			return nil
		}
		results, err := database.NewResultRepository(db).List(ctx, statsRecent)
		if err != nil {
			return err
		}
		if len(results) > 0 {
			fmt.Fprintln(out, "\nLetzte Runden:")
		}
		for _, r := range results {
			fmt.Fprintf(out, "  %s  %d / %d\n", r.FinishedAt.Local().Format("2006-01-02 15:04"), r.Score, r.Total)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntVar(&statsHardest, "hardest", 5, "number of hardest facts to list")
	statsCmd.Flags().IntVar(&statsRecent, "recent", 5, "number of recent rounds to list")
}
