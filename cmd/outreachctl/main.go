// Command outreachctl runs the outreach text helpers and pipeline from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "outreachctl",
		Short:         "Outreach pipeline tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newEnforceCmd(),
		newSanitizeCmd(),
		newClassifyCmd(),
		newGenerateCmd(),
		newMigrateCmd(),
	)
	return root
}
