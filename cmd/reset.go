package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/levelup/internal/database"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget all stored fact weights",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if !resetYes {
			fmt.Fprintln(out, "⚠️ This resets every fact to the default weight. Run again with --yes to confirm.")
			return nil
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := database.NewWeightRepository(db).Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(out, "🔄 All fact weights reset.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "confirm the reset")
}
