package main

import (
	"fmt"

	"github.com/ludo-technologies/treedist/app"
	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/service"
	"github.com/spf13/cobra"
)

// CompareCommand represents the compare command
type CompareCommand struct {
	strategies []string
	solver     solverFlags
	output     outputFlags
	showScript bool
	inline     bool
	configFile string
}

// NewCompareCommand creates a new compare command
func NewCompareCommand() *CompareCommand {
	return &CompareCommand{
		strategies: strategyNames(domain.AllStrategies()),
		showScript: true,
	}
}

// CreateCobraCommand creates the cobra command for comparing two trees
func (c *CompareCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <tree1> <tree2>",
		Short: "Compute the edit distance between two trees",
		Long: `Compute the minimum-cost edit script turning tree1 into tree2.

Arguments are tree files (.tree, .json, .yaml, .py) or, with --inline,
bracket notation. Every selected strategy runs, the exact strategies
are checked to agree, and their common cost is reported as the distance.

Examples:
  # Compare two bracket-notation files with all strategies
  treedist compare a.tree b.tree

  # Compare inline trees with custom costs
  treedist compare --inline "A(B(D),C(E))" "A(B(D),F)" --insert 2 --delete 2

  # Compare two Python files with the polynomial strategy only
  treedist compare old.py new.py --strategy divide_and_conquer

  # JSON report including the edit script
  treedist compare a.json b.json --json`,
		Args: cobra.ExactArgs(2),
		RunE: c.runCompare,
	}

	cmd.Flags().StringSliceVarP(&c.strategies, service.FlagStrategy, "s", c.strategies,
		"Strategies to run (backtracking, branch_and_bound, divide_and_conquer, dynamic_programming)")
	c.solver.register(cmd.Flags())
	c.output.register(cmd.Flags())
	cmd.Flags().BoolVar(&c.showScript, service.FlagShowScript, true, "Show the edit script found by the search strategies")
	cmd.Flags().BoolVar(&c.inline, "inline", false, "Treat arguments as bracket notation instead of file paths")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (c *CompareCommand) runCompare(cmd *cobra.Command, args []string) error {
	err := c.compare(cmd, args)
	if err != nil {
		printCategorizedError(cmd, err)
	}
	return err
}

func (c *CompareCommand) compare(cmd *cobra.Command, args []string) error {
	verbose := isVerbose(cmd)

	format, err := c.output.format()
	if err != nil {
		return err
	}

	request := domain.DistanceRequest{
		Source:       args[0],
		Target:       args[1],
		Inline:       c.inline,
		Solver:       c.solver.settings(parseStrategies(c.strategies)),
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   c.output.outputPath,
		ShowScript:   c.showScript,
		ConfigPath:   c.configFile,
	}

	configLoader := service.NewDistanceConfigurationLoader(GetExplicitFlags(cmd))
	if !c.inline {
		configLoader.WithStartDir(args[0])
	}

	useCase, err := app.NewCompareUseCaseBuilder().
		WithService(service.NewDistanceService()).
		WithTreeReader(service.NewTreeReader()).
		WithFormatter(service.NewDistanceFormatter()).
		WithConfigLoader(configLoader).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create compare use case: %w", err)
	}

	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "🔍 Comparing %s with %s\n", args[0], args[1])
	}

	response, err := useCase.Execute(cmd.Context(), request)
	if err != nil {
		return err
	}

	if verbose {
		for _, r := range response.Results {
			status := "ok"
			if !r.Success {
				status = r.Error
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "   %-20s %6dms  %s\n", r.Strategy, r.DurationMs, status)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✅ Completed in %dms\n", response.DurationMs)
	}

	for _, r := range response.Results {
		if r.Success {
			return nil
		}
	}
	return domain.NewResourceExceededError("no strategy finished within its limits", nil)
}

// NewCompareCmd creates and returns the compare cobra command
func NewCompareCmd() *cobra.Command {
	return NewCompareCommand().CreateCobraCommand()
}
