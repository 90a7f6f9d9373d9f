package main

import (
	"fmt"
	"time"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// solverFlags are the cost and limit flags shared by compare and batch
type solverFlags struct {
	insert      float64
	delete      float64
	replace     float64
	maxDepth    int
	maxBranches int64
	timeout     time.Duration
}

func (f *solverFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.insert, service.FlagInsertCost, domain.DefaultInsertCost, "Cost of inserting one node")
	fs.Float64Var(&f.delete, service.FlagDeleteCost, domain.DefaultDeleteCost, "Cost of deleting one node")
	fs.Float64Var(&f.replace, service.FlagReplaceCost, domain.DefaultReplaceCost, "Cost of renaming one node")
	fs.IntVar(&f.maxDepth, service.FlagMaxDepth, domain.DefaultMaxDepth, "Maximum recursion depth")
	fs.Int64Var(&f.maxBranches, service.FlagMaxBranches, domain.DefaultMaxBranches, "Maximum branches explored by the search strategies (0 = unlimited)")
	fs.DurationVar(&f.timeout, service.FlagTimeout, domain.DefaultTimeoutSeconds*time.Second, "Time budget of one comparison (0 = unlimited)")
}

func (f *solverFlags) settings(strategies []domain.Strategy) domain.SolverSettings {
	return domain.SolverSettings{
		Strategies: strategies,
		Costs: domain.CostSettings{
			Insert:  f.insert,
			Delete:  f.delete,
			Replace: f.replace,
		},
		MaxDepth:    f.maxDepth,
		MaxBranches: f.maxBranches,
		Timeout:     f.timeout,
	}
}

// outputFlags select the report format and destination
type outputFlags struct {
	json       bool
	yaml       bool
	csv        bool
	outputPath string
}

func (f *outputFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.json, service.FlagJSON, false, "Output JSON")
	fs.BoolVar(&f.yaml, service.FlagYAML, false, "Output YAML")
	fs.BoolVar(&f.csv, service.FlagCSV, false, "Output CSV")
	fs.StringVarP(&f.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
}

// format returns the selected format; at most one format flag may be set
func (f *outputFlags) format() (domain.OutputFormat, error) {
	format := domain.OutputFormatText
	count := 0
	if f.json {
		format = domain.OutputFormatJSON
		count++
	}
	if f.yaml {
		format = domain.OutputFormatYAML
		count++
	}
	if f.csv {
		format = domain.OutputFormatCSV
		count++
	}
	if count > 1 {
		return "", domain.NewInvalidInputError("only one of --json, --yaml or --csv may be set", nil)
	}
	return format, nil
}

func parseStrategies(names []string) []domain.Strategy {
	strategies := make([]domain.Strategy, 0, len(names))
	for _, name := range names {
		strategies = append(strategies, domain.Strategy(name))
	}
	return strategies
}

func strategyNames(strategies []domain.Strategy) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, string(s))
	}
	return names
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

// printCategorizedError prints the category of err and what to try next
func printCategorizedError(cmd *cobra.Command, err error) {
	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)
	if categorized == nil {
		return
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "❌ %s: %s\n", categorized.Category, categorized.Message)
	fmt.Fprintf(w, "\n💡 Suggestions:\n")
	for _, suggestion := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", suggestion)
	}
	fmt.Fprintln(w)
}
