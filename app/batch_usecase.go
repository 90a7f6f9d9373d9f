package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/treedist/domain"
)

// BatchUseCase orchestrates the pairwise comparison of many trees
type BatchUseCase struct {
	service      domain.DistanceService
	treeReader   domain.TreeReader
	formatter    domain.DistanceOutputFormatter
	configLoader domain.BatchConfigurationLoader
	output       domain.ReportWriter
	progress     domain.ProgressManager
}

// Execute collects the tree files, computes the distance matrix and writes the report
func (uc *BatchUseCase) Execute(ctx context.Context, req domain.BatchRequest) (*domain.BatchResponse, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}
	if err := finalReq.Validate(); err != nil {
		return nil, err
	}

	files, err := uc.treeReader.CollectTreeFiles(finalReq.Patterns)
	if err != nil {
		return nil, err
	}
	if len(files) < 2 {
		return nil, domain.NewInvalidInputError(
			fmt.Sprintf("batch needs at least two tree files, found %d", len(files)), nil)
	}

	trees := make([]*domain.LoadedTree, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewResourceExceededError("batch cancelled while reading trees", err)
		}
		t, err := uc.treeReader.ReadTree(ctx, file)
		if err != nil {
			return nil, err
		}
		trees = append(trees, t)
	}

	if uc.progress != nil {
		defer uc.progress.Close()
	}

	response, err := uc.service.CompareAll(ctx, &finalReq, trees, uc.progress)
	if err != nil {
		return nil, err
	}

	err = uc.output.Write(finalReq.OutputWriter, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.WriteBatch(response, finalReq.OutputFormat, w)
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *BatchUseCase) loadAndMergeConfig(req domain.BatchRequest) (domain.BatchRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	configReq, err := uc.configLoader.LoadBatchConfig(req.ConfigPath)
	if err != nil {
		return req, err
	}
	if configReq == nil {
		return req, nil
	}
	return *uc.configLoader.MergeBatchConfig(configReq, &req), nil
}

// BatchUseCaseBuilder provides a builder pattern for creating BatchUseCase
type BatchUseCaseBuilder struct {
	service      domain.DistanceService
	treeReader   domain.TreeReader
	formatter    domain.DistanceOutputFormatter
	configLoader domain.BatchConfigurationLoader
	output       domain.ReportWriter
	progress     domain.ProgressManager
}

// NewBatchUseCaseBuilder creates a new builder
func NewBatchUseCaseBuilder() *BatchUseCaseBuilder {
	return &BatchUseCaseBuilder{}
}

// WithService sets the distance service
func (b *BatchUseCaseBuilder) WithService(service domain.DistanceService) *BatchUseCaseBuilder {
	b.service = service
	return b
}

// WithTreeReader sets the tree reader
func (b *BatchUseCaseBuilder) WithTreeReader(treeReader domain.TreeReader) *BatchUseCaseBuilder {
	b.treeReader = treeReader
	return b
}

// WithFormatter sets the output formatter
func (b *BatchUseCaseBuilder) WithFormatter(formatter domain.DistanceOutputFormatter) *BatchUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *BatchUseCaseBuilder) WithConfigLoader(configLoader domain.BatchConfigurationLoader) *BatchUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *BatchUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *BatchUseCaseBuilder {
	b.output = output
	return b
}

// WithProgress sets the progress manager
func (b *BatchUseCaseBuilder) WithProgress(progress domain.ProgressManager) *BatchUseCaseBuilder {
	b.progress = progress
	return b
}

// Build creates the BatchUseCase. The configuration loader and progress
// manager are optional.
func (b *BatchUseCaseBuilder) Build() (*BatchUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("distance service is required")
	}
	if b.treeReader == nil {
		return nil, fmt.Errorf("tree reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("report writer is required")
	}

	return &BatchUseCase{
		service:      b.service,
		treeReader:   b.treeReader,
		formatter:    b.formatter,
		configLoader: b.configLoader,
		output:       b.output,
		progress:     b.progress,
	}, nil
}
