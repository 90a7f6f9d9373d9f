package main

import (
	"os"

	"github.com/ludo-technologies/treedist/internal/version"
	"github.com/spf13/cobra"
)

// newRootCmd assembles the treedist command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treedist",
		Short: "Tree edit distance calculator",
		Long: `treedist computes the minimum-cost edit script between two ordered,
labeled trees using node insertions, deletions and renames.

Trees are read from bracket notation (A(B,C)), JSON or YAML documents,
or Python source files parsed with tree-sitter. Four strategies are
available:
  • backtracking        exhaustive search, reports the edit script
  • branch_and_bound    search pruned by lower bounds
  • divide_and_conquer  polynomial forest recursion
  • dynamic_programming fast approximation that only renames leaves`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewCompareCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
