package cmd

import (
	"errors"
	"fmt"

	"phantomsync/internal/db"
	"phantomsync/internal/model"
	"phantomsync/internal/repository"

	"github.com/spf13/cobra"
)

var historyN int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent uploads",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !db.Enabled() {
			return errors.New("history is disabled, set history_db in ~/.phantomsync/settings.yaml")
		}

		repo := repository.NewHistoryRepository()
		histories, err := repo.GetRecent(historyN)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if len(histories) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, h := range histories {
			status := "✓"
			if h.Status == model.StatusFailed {
				status = "✗"
			}

			fmt.Printf("%s [%s] %-8s %s\n",
				status,
				h.UploadedAt.Format("2006-01-02 15:04:05"),
				h.Kind,
				h.Message,
			)
		}

		stats, err := repo.GetStats()
		if err != nil {
			return fmt.Errorf("failed to read history stats: %w", err)
		}
		fmt.Printf("\ntotal %d, succeeded %d, failed %d\n", stats.Total, stats.Success, stats.Failed)

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	rootCmd.AddCommand(historyCmd)
}
