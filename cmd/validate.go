package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the account configuration and list its mappings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		accts, err := loadAccounts()
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d account(s)\n", accts.Path, len(accts.Accounts))

		missing := 0
		for _, a := range accts.Accounts {
			fmt.Printf("\n%s (%s)\n", a.Name, a.Endpoint)

			if len(a.Scripts) == 0 {
				fmt.Println("  no scripts")
				continue
			}

			for _, name := range a.ScriptNames() {
				local := a.Scripts[name]
				mark := "✓"
				if _, err := os.Stat(filepath.Join(accts.BaseDir, local)); err != nil {
					mark = "✗"
					missing++
				}
				fmt.Printf("  %s %-30s <- %s\n", mark, name, local)
			}
		}

		if missing > 0 {
			fmt.Printf("\n%d mapped file(s) not found\n", missing)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
