package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/treedist/domain"
)

// Names inline trees are reported under
const (
	InlineSourceName = "tree1"
	InlineTargetName = "tree2"
)

// CompareUseCase orchestrates the comparison of two trees
type CompareUseCase struct {
	service      domain.DistanceService
	treeReader   domain.TreeReader
	formatter    domain.DistanceOutputFormatter
	configLoader domain.DistanceConfigurationLoader
	output       domain.ReportWriter
}

// NewCompareUseCase creates a new compare use case
func NewCompareUseCase(
	service domain.DistanceService,
	treeReader domain.TreeReader,
	formatter domain.DistanceOutputFormatter,
	configLoader domain.DistanceConfigurationLoader,
	output domain.ReportWriter,
) *CompareUseCase {
	return &CompareUseCase{
		service:      service,
		treeReader:   treeReader,
		formatter:    formatter,
		configLoader: configLoader,
		output:       output,
	}
}

// Execute loads both trees, runs the requested strategies and writes the report
func (uc *CompareUseCase) Execute(ctx context.Context, req domain.DistanceRequest) (*domain.DistanceResponse, error) {
	// Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Load configuration; values set on the request win
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return nil, err
	}
	if err := finalReq.Validate(); err != nil {
		return nil, err
	}

	source, target, err := uc.readTrees(ctx, finalReq)
	if err != nil {
		return nil, err
	}

	response, err := uc.service.Compare(ctx, &finalReq, source, target)
	if err != nil {
		return nil, err
	}

	// Format and output results
	err = uc.output.Write(finalReq.OutputWriter, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Write(response, finalReq.OutputFormat, finalReq.ShowScript, w)
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *CompareUseCase) readTrees(ctx context.Context, req domain.DistanceRequest) (*domain.LoadedTree, *domain.LoadedTree, error) {
	if req.Inline {
		source, err := uc.treeReader.ParseInline(InlineSourceName, req.Source)
		if err != nil {
			return nil, nil, err
		}
		target, err := uc.treeReader.ParseInline(InlineTargetName, req.Target)
		if err != nil {
			return nil, nil, err
		}
		return source, target, nil
	}

	source, err := uc.treeReader.ReadTree(ctx, req.Source)
	if err != nil {
		return nil, nil, err
	}
	target, err := uc.treeReader.ReadTree(ctx, req.Target)
	if err != nil {
		return nil, nil, err
	}
	return source, target, nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *CompareUseCase) loadAndMergeConfig(req domain.DistanceRequest) (domain.DistanceRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	configReq, err := uc.configLoader.LoadConfig(req.ConfigPath)
	if err != nil {
		return req, err
	}
	if configReq == nil {
		return req, nil
	}
	return *uc.configLoader.MergeConfig(configReq, &req), nil
}

// CompareUseCaseBuilder provides a builder pattern for creating CompareUseCase
type CompareUseCaseBuilder struct {
	service      domain.DistanceService
	treeReader   domain.TreeReader
	formatter    domain.DistanceOutputFormatter
	configLoader domain.DistanceConfigurationLoader
	output       domain.ReportWriter
}

// NewCompareUseCaseBuilder creates a new builder
func NewCompareUseCaseBuilder() *CompareUseCaseBuilder {
	return &CompareUseCaseBuilder{}
}

// WithService sets the distance service
func (b *CompareUseCaseBuilder) WithService(service domain.DistanceService) *CompareUseCaseBuilder {
	b.service = service
	return b
}

// WithTreeReader sets the tree reader
func (b *CompareUseCaseBuilder) WithTreeReader(treeReader domain.TreeReader) *CompareUseCaseBuilder {
	b.treeReader = treeReader
	return b
}

// WithFormatter sets the output formatter
func (b *CompareUseCaseBuilder) WithFormatter(formatter domain.DistanceOutputFormatter) *CompareUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *CompareUseCaseBuilder) WithConfigLoader(configLoader domain.DistanceConfigurationLoader) *CompareUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *CompareUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *CompareUseCaseBuilder {
	b.output = output
	return b
}

// Build creates the CompareUseCase with the configured dependencies.
// The configuration loader is optional.
func (b *CompareUseCaseBuilder) Build() (*CompareUseCase, error) {
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

	return NewCompareUseCase(
		b.service,
		b.treeReader,
		b.formatter,
		b.configLoader,
		b.output,
	), nil
}
