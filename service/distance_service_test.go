package service

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/tree"
)

func loaded(name, notation string) *domain.LoadedTree {
	return &domain.LoadedTree{Name: name, Format: domain.TreeFormatBracket, Tree: tree.MustParse(notation)}
}

func TestDistanceService_Compare_AllStrategies(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultDistanceRequest()

	resp, err := svc.Compare(context.Background(), req, loaded("a", "A(B(D),C(E))"), loaded("b", "A(B(D),F)"))
	require.NoError(t, err)

	assert.True(t, resp.HasDistance)
	assert.Equal(t, 2.0, resp.Distance)
	assert.False(t, resp.Identical)
	assert.Equal(t, 1.0, resp.LowerBound)
	assert.Equal(t, 9.0, resp.UpperBound)
	assert.Equal(t, 5, resp.Source.Size)
	assert.Equal(t, 4, resp.Target.Size)

	require.Len(t, resp.Results, 4)
	for i, s := range domain.AllStrategies() {
		assert.Equal(t, s, resp.Results[i].Strategy)
		assert.True(t, resp.Results[i].Success, "strategy %s", s)
	}

	bt := resp.Result(domain.StrategyBacktracking)
	require.NotNil(t, bt)
	require.Len(t, bt.Operations, 5)
	assert.Equal(t, "MATCH", bt.Operations[0].Kind)
	assert.Equal(t, "REPLACE 'C' -> 'F' (cost: 1)", bt.Operations[3].String())
	assert.Equal(t, "DELETE 'E' (cost: 1)", bt.Operations[4].String())
	assert.Greater(t, bt.Visited, int64(0))

	assert.Empty(t, resp.Result(domain.StrategyDivideAndConquer).Operations)

	dp := resp.Result(domain.StrategyDynamicProgramming)
	require.NotNil(t, dp)
	assert.False(t, dp.Exact)
	assert.Equal(t, 6.0, dp.Cost)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "dynamic_programming differs")
}

func TestDistanceService_Compare_Identical(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultDistanceRequest()
	req.Solver.Strategies = []domain.Strategy{domain.StrategyBranchAndBound, domain.StrategyDivideAndConquer}

	resp, err := svc.Compare(context.Background(), req, loaded("a", "R(x,y(z))"), loaded("b", "R(x,y(z))"))
	require.NoError(t, err)

	assert.True(t, resp.Identical)
	assert.Equal(t, resp.Source.Fingerprint, resp.Target.Fingerprint)
	assert.Equal(t, 0.0, resp.Distance)
	assert.Empty(t, resp.Warnings)
}

func TestDistanceService_Compare_EmptyTrees(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultDistanceRequest()
	req.Solver.Costs = domain.CostSettings{Insert: 2, Delete: 3, Replace: 1}

	source := &domain.LoadedTree{Name: "empty"}
	resp, err := svc.Compare(context.Background(), req, source, loaded("b", "A(B,C)"))
	require.NoError(t, err)

	assert.Equal(t, 6.0, resp.Distance)
	assert.Equal(t, 0, resp.Source.Size)
	for _, r := range resp.Results {
		assert.Equal(t, 6.0, r.Cost, "strategy %s", r.Strategy)
	}
}

func TestDistanceService_Compare_ResourceLimit(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultDistanceRequest()
	req.Solver.Strategies = []domain.Strategy{domain.StrategyBacktracking, domain.StrategyDivideAndConquer}
	req.Solver.MaxBranches = 1

	resp, err := svc.Compare(context.Background(), req, loaded("a", "A(B(D),C(E))"), loaded("b", "A(B(D),F)"))
	require.NoError(t, err)

	bt := resp.Result(domain.StrategyBacktracking)
	require.NotNil(t, bt)
	assert.False(t, bt.Success)
	assert.Contains(t, bt.Error, "resource limit exceeded")
	assert.Equal(t, int64(1), bt.Visited, "stopped searches report the states they visited")

	assert.True(t, resp.HasDistance)
	assert.Equal(t, 2.0, resp.Distance)
	require.NotEmpty(t, resp.Warnings)
	assert.Contains(t, resp.Warnings[0], "backtracking")
}

func TestDistanceService_Compare_NoExactResult(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultDistanceRequest()
	req.Solver.Strategies = []domain.Strategy{domain.StrategyBacktracking}
	req.Solver.MaxBranches = 1

	resp, err := svc.Compare(context.Background(), req, loaded("a", "A(B(D),C(E))"), loaded("b", "A(B(D),F)"))
	require.NoError(t, err)

	assert.False(t, resp.HasDistance)
	assert.Contains(t, resp.Warnings[len(resp.Warnings)-1], "no exact strategy finished")
}

func TestDistanceService_Compare_Errors(t *testing.T) {
	svc := NewDistanceService()
	a, b := loaded("a", "A"), loaded("b", "B")

	tests := []struct {
		name     string
		ctx      func() context.Context
		modify   func(req *domain.DistanceRequest)
		source   *domain.LoadedTree
		wantCode string
	}{
		{
			name:     "missing tree",
			ctx:      context.Background,
			modify:   func(req *domain.DistanceRequest) {},
			source:   nil,
			wantCode: domain.ErrCodeInvalidInput,
		},
		{
			name:     "negative cost",
			ctx:      context.Background,
			modify:   func(req *domain.DistanceRequest) { req.Solver.Costs.Insert = -1 },
			source:   a,
			wantCode: domain.ErrCodeInvalidConfiguration,
		},
		{
			name:     "infinite cost",
			ctx:      context.Background,
			modify:   func(req *domain.DistanceRequest) { req.Solver.Costs.Replace = math.Inf(1) },
			source:   a,
			wantCode: domain.ErrCodeInvalidConfiguration,
		},
		{
			name: "cancelled",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			modify:   func(req *domain.DistanceRequest) {},
			source:   a,
			wantCode: domain.ErrCodeResourceExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := domain.DefaultDistanceRequest()
			tt.modify(req)

			_, err := svc.Compare(tt.ctx(), req, tt.source, b)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
		})
	}
}

type recordingProgress struct {
	NoOpProgressManager
	mu       sync.Mutex
	max      int
	last     int
	complete bool
	success  bool
}

func (p *recordingProgress) Initialize(max int) { p.max = max }

func (p *recordingProgress) Update(processed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if processed > p.last {
		p.last = processed
	}
}

func (p *recordingProgress) Complete(success bool) {
	p.complete = true
	p.success = success
}

func TestDistanceService_CompareAll(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultBatchRequest()
	trees := []*domain.LoadedTree{
		loaded("t0", "A(B,C)"),
		loaded("t1", "A(B,C)"),
		loaded("t2", "A(B)"),
	}
	progress := &recordingProgress{}

	resp, err := svc.CompareAll(context.Background(), req, trees, progress)
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyDivideAndConquer, resp.Strategy)
	require.Len(t, resp.Pairs, 3)
	assert.Equal(t, domain.BatchPair{Source: 0, Target: 1, Shortcut: true}, resp.Pairs[0])
	assert.Equal(t, 1.0, resp.Pairs[1].Distance)
	assert.Equal(t, 1.0, resp.Pairs[2].Distance)

	require.Len(t, resp.Matrix, 3)
	for i := range resp.Matrix {
		assert.Equal(t, 0.0, resp.Matrix[i][i])
		for j := range resp.Matrix {
			assert.Equal(t, resp.Matrix[i][j], resp.Matrix[j][i])
		}
	}
	assert.Equal(t, 1.0, resp.Matrix[0][2])

	assert.Equal(t, 3, progress.max)
	assert.Equal(t, 3, progress.last)
	assert.True(t, progress.complete)
	assert.True(t, progress.success)
}

func TestDistanceService_CompareAll_ResourceLimit(t *testing.T) {
	svc := NewDistanceService()
	req := domain.DefaultBatchRequest()
	req.Strategy = domain.StrategyBacktracking
	req.Solver.MaxBranches = 1
	req.MaxWorkers = 2

	trees := []*domain.LoadedTree{
		loaded("t0", "A(B(D),C(E))"),
		loaded("t1", "A(B(D),F)"),
	}

	resp, err := svc.CompareAll(context.Background(), req, trees, nil)
	require.NoError(t, err)

	require.Len(t, resp.Pairs, 1)
	assert.Contains(t, resp.Pairs[0].Error, "resource limit exceeded")
	assert.True(t, math.IsNaN(resp.Matrix[0][1]))
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "1 of 1 pairs")
}

func TestDistanceService_CompareAll_Validation(t *testing.T) {
	svc := NewDistanceService()

	_, err := svc.CompareAll(context.Background(), domain.DefaultBatchRequest(), []*domain.LoadedTree{loaded("only", "A")}, nil)
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))

	req := domain.DefaultBatchRequest()
	req.Strategy = "simulated_annealing"
	_, err = svc.CompareAll(context.Background(), req, []*domain.LoadedTree{loaded("a", "A"), loaded("b", "B")}, nil)
	assert.Equal(t, domain.ErrCodeInvalidConfiguration, domain.ErrorCode(err))
}
