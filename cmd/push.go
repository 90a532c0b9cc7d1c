package cmd

import (
	"phantomsync/internal/logger"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push <paths...>",
	Short: "Upload the given files once",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPush,
}

func runPush(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	accts, err := loadAccounts()
	if err != nil {
		return err
	}

	d := newDispatcher(accts)
	for _, path := range args {
		d.Dispatch(cmd.Context(), path)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
