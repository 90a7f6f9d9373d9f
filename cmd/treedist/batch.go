package main

import (
	"fmt"

	"github.com/ludo-technologies/treedist/app"
	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/service"
	"github.com/spf13/cobra"
)

// BatchCommand represents the batch command
type BatchCommand struct {
	strategy   string
	workers    int
	solver     solverFlags
	output     outputFlags
	configFile string
}

// NewBatchCommand creates a new batch command
func NewBatchCommand() *BatchCommand {
	return &BatchCommand{
		strategy: string(domain.DefaultBatchStrategy),
		workers:  domain.DefaultMaxWorkers,
	}
}

// CreateCobraCommand creates the cobra command for pairwise comparison
func (b *BatchCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [paths or globs...]",
		Short: "Compute the pairwise distance matrix of many trees",
		Long: `Compare every pair of trees and print the distance matrix.

Arguments are files, directories or doublestar globs. Directories are
searched for **/*.tree, **/*.json, **/*.yaml and **/*.yml; without
arguments the patterns of the [batch] configuration section are used.
Trees with identical fingerprints are reported at distance 0 without
solving.

Examples:
  treedist batch trees/
  treedist batch 'corpus/**/*.json' --workers 4
  treedist batch trees/ --strategy branch_and_bound --max-branches 100000
  treedist batch src/*.py --csv -o matrix.csv`,
		RunE: b.runBatch,
	}

	cmd.Flags().StringVarP(&b.strategy, service.FlagStrategy, "s", b.strategy, "Strategy used for every pair")
	cmd.Flags().IntVarP(&b.workers, service.FlagWorkers, "w", b.workers, "Concurrent comparisons (0 = one per CPU)")
	b.solver.register(cmd.Flags())
	b.output.register(cmd.Flags())
	cmd.Flags().StringVarP(&b.configFile, "config", "c", "", "Configuration file path")

	return cmd
}

func (b *BatchCommand) runBatch(cmd *cobra.Command, args []string) error {
	err := b.batch(cmd, args)
	if err != nil {
		printCategorizedError(cmd, err)
	}
	return err
}

func (b *BatchCommand) batch(cmd *cobra.Command, args []string) error {
	format, err := b.output.format()
	if err != nil {
		return err
	}

	strategy := domain.Strategy(b.strategy)
	request := domain.BatchRequest{
		Patterns:     args,
		Strategy:     strategy,
		Solver:       b.solver.settings([]domain.Strategy{strategy}),
		MaxWorkers:   b.workers,
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   b.output.outputPath,
		ConfigPath:   b.configFile,
	}

	configLoader := service.NewDistanceConfigurationLoader(GetExplicitFlags(cmd))
	if len(args) > 0 {
		configLoader.WithStartDir(args[0])
	}

	progress := service.NewProgressManager("Comparing")
	progress.SetWriter(cmd.ErrOrStderr())

	useCase, err := app.NewBatchUseCaseBuilder().
		WithService(service.NewDistanceService()).
		WithTreeReader(service.NewTreeReader()).
		WithFormatter(service.NewDistanceFormatter()).
		WithConfigLoader(configLoader).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithProgress(progress).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create batch use case: %w", err)
	}

	response, err := useCase.Execute(cmd.Context(), request)
	if err != nil {
		return err
	}

	if isVerbose(cmd) {
		fmt.Fprintf(cmd.ErrOrStderr(), "✅ Compared %d trees (%d pairs) in %dms\n",
			len(response.Trees), len(response.Pairs), response.DurationMs)
	}
	return nil
}

// NewBatchCmd creates and returns the batch cobra command
func NewBatchCmd() *cobra.Command {
	return NewBatchCommand().CreateCobraCommand()
}
