package compare

import (
	"math"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// Default comparison parameters.
const (
	DefaultSimilarityThreshold = 0.7
	DefaultPositionWeight      = 0.3
	DefaultLabelWeight         = 0.7
	DefaultMovementThreshold   = 0.05

	weightTolerance = 1e-6
)

// MatchOptions configures MatchNodes.
type MatchOptions struct {
	// SimilarityThreshold is the minimum combined similarity for a match, in (0, 1].
	SimilarityThreshold float64

	// PositionWeight and LabelWeight weight the two similarity terms and must
	// sum to 1.
	PositionWeight float64
	LabelWeight    float64
}

// DefaultMatchOptions returns the default matcher configuration.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		SimilarityThreshold: DefaultSimilarityThreshold,
		PositionWeight:      DefaultPositionWeight,
		LabelWeight:         DefaultLabelWeight,
	}
}

// Validate reports a scene.ErrConfiguration failure for out-of-range values.
func (o MatchOptions) Validate() error {
	const op = "match options"
	if !(o.SimilarityThreshold > 0 && o.SimilarityThreshold <= 1) {
		return scene.Configuration(op, "similarity threshold must be in (0, 1], got %v", o.SimilarityThreshold)
	}
	if !(o.PositionWeight >= 0 && o.PositionWeight <= 1) || !(o.LabelWeight >= 0 && o.LabelWeight <= 1) {
		return scene.Configuration(op, "weights must be in [0, 1], got position=%v label=%v", o.PositionWeight, o.LabelWeight)
	}
	if math.Abs(o.PositionWeight+o.LabelWeight-1) > weightTolerance {
		return scene.Configuration(op, "position and label weights must sum to 1.0, got %v", o.PositionWeight+o.LabelWeight)
	}
	return nil
}

// ClassifyOptions configures Classify.
type ClassifyOptions struct {
	// MovementThreshold is the normalized position change above which a
	// matched object is reported as moved.
	MovementThreshold float64
}

// DefaultClassifyOptions returns the default classifier configuration.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{MovementThreshold: DefaultMovementThreshold}
}

// Validate reports a scene.ErrConfiguration failure for a non-positive threshold.
func (o ClassifyOptions) Validate() error {
	if !(o.MovementThreshold > 0) {
		return scene.Configuration("classify options", "movement threshold must be positive, got %v", o.MovementThreshold)
	}
	return nil
}

// Options bundles matcher and classifier configuration for Compare.
type Options struct {
	Match    MatchOptions
	Classify ClassifyOptions
}

// DefaultOptions returns the default comparison configuration.
func DefaultOptions() Options {
	return Options{
		Match:    DefaultMatchOptions(),
		Classify: DefaultClassifyOptions(),
	}
}
