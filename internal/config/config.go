// Package config loads the thresholds and weights used by the scene-graph
// tools from a YAML file.
//
// The loaded Config is converted into the explicit option structs of the scene
// and compare packages; those packages never read configuration themselves.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/scene-graph-mcp/internal/compare"
	"github.com/ironsheep/scene-graph-mcp/internal/detection"
	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// GraphConfig controls scene graph construction.
type GraphConfig struct {
	DistanceThreshold     float64 `yaml:"distance_threshold" validate:"gt=0"`
	RelationshipThreshold float64 `yaml:"relationship_threshold" validate:"gte=0"`
}

// MatchConfig controls node matching.
type MatchConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"gt=0,lte=1"`
	PositionWeight      float64 `yaml:"position_weight" validate:"gte=0,lte=1"`
	LabelWeight         float64 `yaml:"label_weight" validate:"gte=0,lte=1"`
}

// ClassifyConfig controls change classification.
type ClassifyConfig struct {
	MovementThreshold float64 `yaml:"movement_threshold" validate:"gt=0"`
}

// DetectionConfig controls the built-in contour detector.
type DetectionConfig struct {
	MinArea       int     `yaml:"min_area" validate:"gt=0"`
	Tolerance     float64 `yaml:"tolerance" validate:"gt=0,lte=1"`
	EdgeThreshold uint8   `yaml:"edge_threshold" validate:"gt=0"`
	BlurRadius    float64 `yaml:"blur_radius" validate:"gte=0"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Config is the full server and CLI configuration.
type Config struct {
	Graph     GraphConfig     `yaml:"graph"`
	Match     MatchConfig     `yaml:"match"`
	Classify  ClassifyConfig  `yaml:"classify"`
	Detection DetectionConfig `yaml:"detection"`
	Log       LogConfig       `yaml:"log"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *Config {
	det := detection.DefaultOptions()
	return &Config{
		Graph: GraphConfig{
			DistanceThreshold:     scene.DefaultDistanceThreshold,
			RelationshipThreshold: scene.DefaultRelationshipThreshold,
		},
		Match: MatchConfig{
			SimilarityThreshold: compare.DefaultSimilarityThreshold,
			PositionWeight:      compare.DefaultPositionWeight,
			LabelWeight:         compare.DefaultLabelWeight,
		},
		Classify: ClassifyConfig{
			MovementThreshold: compare.DefaultMovementThreshold,
		},
		Detection: DetectionConfig{
			MinArea:       det.MinArea,
			Tolerance:     det.Tolerance,
			EdgeThreshold: det.EdgeThreshold,
			BlurRadius:    det.BlurRadius,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and the weight-sum rule. Failures match
// scene.ErrConfiguration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &scene.Error{Kind: scene.KindConfiguration, Op: "validate config", Message: formatValidationError(err)}
	}
	if math.Abs(c.Match.PositionWeight+c.Match.LabelWeight-1) > 1e-6 {
		return scene.Configuration("validate config", "match.position_weight + match.label_weight must equal 1.0, got %v",
			c.Match.PositionWeight+c.Match.LabelWeight)
	}
	return nil
}

// BuildOptions returns graph construction options for an image of the given size.
func (c *Config) BuildOptions(width, height int) scene.BuildOptions {
	return scene.BuildOptions{
		ImageWidth:            width,
		ImageHeight:           height,
		DistanceThreshold:     c.Graph.DistanceThreshold,
		RelationshipThreshold: c.Graph.RelationshipThreshold,
	}
}

// CompareOptions returns matcher and classifier options.
func (c *Config) CompareOptions() compare.Options {
	return compare.Options{
		Match: compare.MatchOptions{
			SimilarityThreshold: c.Match.SimilarityThreshold,
			PositionWeight:      c.Match.PositionWeight,
			LabelWeight:         c.Match.LabelWeight,
		},
		Classify: compare.ClassifyOptions{
			MovementThreshold: c.Classify.MovementThreshold,
		},
	}
}

// DetectionOptions returns contour detector options.
func (c *Config) DetectionOptions() detection.Options {
	return detection.Options{
		MinArea:       c.Detection.MinArea,
		Tolerance:     c.Detection.Tolerance,
		EdgeThreshold: c.Detection.EdgeThreshold,
		BlurRadius:    c.Detection.BlurRadius,
	}
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.ToLower(e.Namespace())
		switch e.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "gt", "gte", "lt", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, e.Tag(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
