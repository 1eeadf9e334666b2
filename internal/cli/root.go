// Package cli implements the scorectl command tree.
package cli

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "scorectl",
	Short: "Score student performance from the command line",
	Long: `scorectl runs the student-performance heuristic without the gateway:
score a single student from flags, or a whole roster file to CSV.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
