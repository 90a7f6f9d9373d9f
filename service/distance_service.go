package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/ted"
	"github.com/ludo-technologies/treedist/internal/tree"
	"github.com/ludo-technologies/treedist/internal/version"
)

// agreementTolerance is how far two exact strategies may drift apart in floating point
const agreementTolerance = 1e-9

// DistanceServiceImpl implements the DistanceService interface
type DistanceServiceImpl struct {
	executor domain.ParallelExecutor
}

// NewDistanceService creates a new distance service
func NewDistanceService() *DistanceServiceImpl {
	return &DistanceServiceImpl{executor: NewParallelExecutor()}
}

// WithExecutor replaces the executor used by CompareAll
func (s *DistanceServiceImpl) WithExecutor(executor domain.ParallelExecutor) *DistanceServiceImpl {
	s.executor = executor
	return s
}

// Compare runs every requested strategy on one pair of trees.
// A strategy stopped by a resource limit is reported with its error and the
// others still run. Exact strategies that finish must agree on the cost.
func (s *DistanceServiceImpl) Compare(ctx context.Context, req *domain.DistanceRequest, source, target *domain.LoadedTree) (*domain.DistanceResponse, error) {
	if req == nil {
		return nil, domain.NewValidationError("distance request is required")
	}
	if source == nil || target == nil {
		return nil, domain.NewValidationError("source and target trees are required")
	}
	if err := req.Solver.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	cost := toCostModel(req.Solver.Costs)
	t1, t2 := treeOrEmpty(source.Tree), treeOrEmpty(target.Tree)

	resp := &domain.DistanceResponse{
		Source:      summarize(source.Name, source.Format, t1),
		Target:      summarize(target.Name, target.Format, t2),
		Costs:       req.Solver.Costs,
		LowerBound:  cost.SizeLowerBound(t1.Size(), t2.Size()),
		UpperBound:  cost.TrivialBound(t1.Size(), t2.Size()),
		GeneratedAt: start.Format(time.RFC3339),
		Version:     version.Short(),
	}
	resp.Identical = resp.Source.Fingerprint == resp.Target.Fingerprint

	for _, strategy := range req.Solver.Strategies {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewResourceExceededError("comparison cancelled", err)
		}

		result, err := s.runStrategy(ctx, strategy, t1, t2, cost, req.Solver)
		if err != nil {
			return nil, err
		}
		if !result.Success {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("%s: %s", strategy, result.Error))
		}
		resp.Results = append(resp.Results, result)
	}

	if err := s.checkAgreement(resp); err != nil {
		return nil, err
	}

	resp.DurationMs = time.Since(start).Milliseconds()
	return resp, nil
}

func (s *DistanceServiceImpl) runStrategy(ctx context.Context, strategy domain.Strategy, t1, t2 *tree.Tree, cost ted.CostModel, settings domain.SolverSettings) (domain.StrategyResult, error) {
	tedStrategy, err := ted.ParseStrategy(string(strategy))
	if err != nil {
		return domain.StrategyResult{}, domain.NewDomainError(domain.ErrCodeInvalidConfiguration, err.Error(), err)
	}

	out := domain.StrategyResult{Strategy: strategy, Exact: tedStrategy.Exact()}

	begin := time.Now()
	res, err := ted.Solve(tedStrategy, t1, t2, cost, solverOptions(ctx, settings)...)
	out.DurationMs = time.Since(begin).Milliseconds()

	switch {
	case err == nil:
	case errors.Is(err, ted.ErrResourceExceeded):
		out.Error = err.Error()
		if res != nil {
			out.Visited = res.Stats.Visited
			out.Pruned = res.Stats.Pruned
			out.Improvements = res.Stats.Improvements
		}
		return out, nil
	case errors.Is(err, ted.ErrInvariantViolation):
		return out, domain.NewInvariantViolationError(fmt.Sprintf("%s produced an invalid edit script", strategy), err)
	case errors.Is(err, ted.ErrInvalidConfiguration):
		return out, domain.NewDomainError(domain.ErrCodeInvalidConfiguration, err.Error(), err)
	default:
		return out, domain.NewAnalysisError(fmt.Sprintf("failed to compute %s distance", strategy), err)
	}

	out.Success = true
	out.Cost = res.Cost
	out.Visited = res.Stats.Visited
	out.Pruned = res.Stats.Pruned
	out.Improvements = res.Stats.Improvements
	if res.Script != nil {
		out.Operations = convertOperations(res.Script)
	}
	return out, nil
}

// checkAgreement fills the exact distance and records the approximation gap.
// Disagreement between exact strategies is a solver defect.
func (s *DistanceServiceImpl) checkAgreement(resp *domain.DistanceResponse) error {
	var (
		reference *domain.StrategyResult
		approx    []*domain.StrategyResult
	)
	for i := range resp.Results {
		r := &resp.Results[i]
		if !r.Success {
			continue
		}
		if !r.Exact {
			approx = append(approx, r)
			continue
		}
		if reference == nil {
			reference = r
			continue
		}
		if math.Abs(r.Cost-reference.Cost) > agreementTolerance {
			return domain.NewInvariantViolationError(
				fmt.Sprintf("%s returned %g but %s returned %g", r.Strategy, r.Cost, reference.Strategy, reference.Cost), nil)
		}
	}

	if reference == nil {
		if len(resp.Results) > 0 {
			resp.Warnings = append(resp.Warnings, "no exact strategy finished; the exact distance is unknown")
		}
		return nil
	}

	resp.Distance = reference.Cost
	resp.HasDistance = true
	for _, r := range approx {
		if gap := r.Cost - reference.Cost; math.Abs(gap) > agreementTolerance {
			resp.Warnings = append(resp.Warnings,
				fmt.Sprintf("%s differs from the exact distance by %+g (it can only rename leaves)", r.Strategy, gap))
		}
	}
	return nil
}

// CompareAll computes the distance of every unordered pair with a single
// strategy. Pairs run concurrently; identical trees short-circuit to 0.
func (s *DistanceServiceImpl) CompareAll(ctx context.Context, req *domain.BatchRequest, trees []*domain.LoadedTree, progress domain.ProgressManager) (*domain.BatchResponse, error) {
	if req == nil {
		return nil, domain.NewValidationError("batch request is required")
	}
	if len(trees) < 2 {
		return nil, domain.NewValidationError("at least two trees are required for a batch comparison")
	}
	if progress == nil {
		progress = NoOpProgressManager{}
	}

	settings := req.Solver
	settings.Strategies = []domain.Strategy{req.Strategy}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	tedStrategy, err := ted.ParseStrategy(string(req.Strategy))
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeInvalidConfiguration, err.Error(), err)
	}

	start := time.Now()
	cost := toCostModel(settings.Costs)

	n := len(trees)
	resp := &domain.BatchResponse{
		Strategy:    req.Strategy,
		Costs:       settings.Costs,
		Trees:       make([]domain.TreeSummary, n),
		Matrix:      make([][]float64, n),
		GeneratedAt: start.Format(time.RFC3339),
		Version:     version.Short(),
	}
	normalized := make([]*tree.Tree, n)
	for i, lt := range trees {
		normalized[i] = treeOrEmpty(lt.Tree)
		resp.Trees[i] = summarize(lt.Name, lt.Format, normalized[i])
		resp.Matrix[i] = make([]float64, n)
	}

	total := n * (n - 1) / 2
	resp.Pairs = make([]domain.BatchPair, total)

	var done atomic.Int64
	progress.Initialize(total)
	progress.Start()

	tasks := make([]domain.ExecutableTask, 0, total)
	k := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			idx, a, b := k, i, j
			k++
			name := fmt.Sprintf("%s <-> %s", trees[a].Name, trees[b].Name)
			tasks = append(tasks, NewSimpleTask(name, true, func(ctx context.Context) (interface{}, error) {
				defer func() {
					progress.Update(int(done.Add(1)), total)
				}()

				pair := domain.BatchPair{Source: a, Target: b}
				if resp.Trees[a].Fingerprint == resp.Trees[b].Fingerprint {
					pair.Shortcut = true
					resp.Pairs[idx] = pair
					return pair, nil
				}

				res, err := ted.Solve(tedStrategy, normalized[a], normalized[b], cost, solverOptions(ctx, settings)...)
				switch {
				case err == nil:
					pair.Distance = res.Cost
				case errors.Is(err, ted.ErrResourceExceeded):
					pair.Error = err.Error()
				default:
					return nil, err
				}
				resp.Pairs[idx] = pair
				return pair, nil
			}))
		}
	}

	s.executor.SetMaxConcurrency(req.MaxWorkers)
	if err := s.executor.Execute(ctx, tasks); err != nil {
		progress.Complete(false)
		if errors.Is(err, ted.ErrInvariantViolation) {
			return nil, domain.NewInvariantViolationError("batch comparison produced an invalid result", err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewResourceExceededError("batch comparison cancelled", err)
		}
		return nil, domain.NewAnalysisError("batch comparison failed", err)
	}
	progress.Complete(true)

	failed := 0
	for _, p := range resp.Pairs {
		d := p.Distance
		if p.Error != "" {
			d = math.NaN()
			failed++
		}
		resp.Matrix[p.Source][p.Target] = d
		resp.Matrix[p.Target][p.Source] = d
	}
	if failed > 0 {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("%d of %d pairs stopped at a resource limit", failed, total))
	}

	resp.DurationMs = time.Since(start).Milliseconds()
	return resp, nil
}

// solverOptions maps settings and the context deadline to solver limits.
// The tighter of the configured timeout and the deadline wins.
func solverOptions(ctx context.Context, settings domain.SolverSettings) []ted.Option {
	opts := []ted.Option{
		ted.WithMaxDepth(settings.MaxDepth),
		ted.WithMaxBranches(settings.MaxBranches),
	}

	limit := settings.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			remaining = time.Nanosecond
		}
		if limit == 0 || remaining < limit {
			limit = remaining
		}
	}
	if limit > 0 {
		opts = append(opts, ted.WithTimeLimit(limit))
	}
	return opts
}

func toCostModel(c domain.CostSettings) ted.CostModel {
	return ted.CostModel{Insert: c.Insert, Delete: c.Delete, Replace: c.Replace}
}

func treeOrEmpty(t *tree.Tree) *tree.Tree {
	if t == nil {
		return tree.Empty()
	}
	return t
}

func summarize(name string, format domain.TreeFormat, t *tree.Tree) domain.TreeSummary {
	return domain.TreeSummary{
		Name:        name,
		Format:      string(format),
		Size:        t.Size(),
		Height:      t.Height(),
		Leaves:      t.Leaves(),
		Fingerprint: t.Fingerprint(),
	}
}

func convertOperations(script *ted.EditScript) []domain.EditOperationInfo {
	ops := make([]domain.EditOperationInfo, 0, script.Len())
	for _, op := range script.Operations {
		ops = append(ops, domain.EditOperationInfo{
			Kind:        op.Kind.String(),
			SourceNode:  int(op.Source),
			TargetNode:  int(op.Target),
			SourceLabel: op.SourceLabel,
			TargetLabel: op.TargetLabel,
			Cost:        op.Cost,
		})
	}
	return ops
}

var _ domain.DistanceService = (*DistanceServiceImpl)(nil)
