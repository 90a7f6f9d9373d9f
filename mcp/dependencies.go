package mcp

import (
	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/config"
	"github.com/ludo-technologies/treedist/service"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	service    domain.DistanceService
	treeReader domain.TreeReader
	config     *config.Config
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies(cfg *config.Config) *Dependencies {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Dependencies{
		service:    service.NewDistanceService(),
		treeReader: service.NewTreeReader(),
		config:     cfg,
	}
}

// Config exposes the loaded configuration snapshot.
func (d *Dependencies) Config() *config.Config {
	return d.config
}

// solverSettings returns the configured solver defaults as domain settings.
func (d *Dependencies) solverSettings() domain.SolverSettings {
	return service.SolverSettingsFromConfig(d.config)
}
