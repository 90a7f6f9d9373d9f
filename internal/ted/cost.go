package ted

import (
	"fmt"
	"math"
)

// CostModel holds the per-node cost of each edit operation
type CostModel struct {
	Insert  float64 `json:"insert" yaml:"insert" mapstructure:"insert"`
	Delete  float64 `json:"delete" yaml:"delete" mapstructure:"delete"`
	Replace float64 `json:"replace" yaml:"replace" mapstructure:"replace"`
}

// Unit returns the cost model where every operation costs 1
func Unit() CostModel {
	return CostModel{Insert: 1, Delete: 1, Replace: 1}
}

// Validate checks that every cost is finite and non-negative
func (c CostModel) Validate() error {
	costs := []struct {
		name  string
		value float64
	}{
		{"insert", c.Insert},
		{"delete", c.Delete},
		{"replace", c.Replace},
	}
	for _, cc := range costs {
		if math.IsNaN(cc.value) || math.IsInf(cc.value, 0) {
			return fmt.Errorf("%w: %s cost must be finite, got %v", ErrInvalidConfiguration, cc.name, cc.value)
		}
		if cc.value < 0 {
			return fmt.Errorf("%w: %s cost must be >= 0, got %v", ErrInvalidConfiguration, cc.name, cc.value)
		}
	}
	return nil
}

// Rename returns the cost of pairing a node labeled from with one labeled to.
// Identical labels are a match and cost nothing.
func (c CostModel) Rename(from, to string) float64 {
	if from == to {
		return 0
	}
	return c.Replace
}

// Swapped returns the model with insert and delete costs exchanged.
// distance(a, b, c) equals distance(b, a, c.Swapped()).
func (c CostModel) Swapped() CostModel {
	return CostModel{Insert: c.Delete, Delete: c.Insert, Replace: c.Replace}
}

// TrivialBound returns the cost of deleting every source node and inserting
// every target node, an upper bound on any distance
func (c CostModel) TrivialBound(sourceSize, targetSize int) float64 {
	return float64(sourceSize)*c.Delete + float64(targetSize)*c.Insert
}

// SizeLowerBound returns the cost every edit script must pay for the size
// difference alone: surplus source nodes are deleted, surplus target nodes inserted
func (c CostModel) SizeLowerBound(sourceSize, targetSize int) float64 {
	if sourceSize > targetSize {
		return float64(sourceSize-targetSize) * c.Delete
	}
	return float64(targetSize-sourceSize) * c.Insert
}

// String returns a compact representation of the cost model
func (c CostModel) String() string {
	return fmt.Sprintf("CostModel{insert: %g, delete: %g, replace: %g}", c.Insert, c.Delete, c.Replace)
}
