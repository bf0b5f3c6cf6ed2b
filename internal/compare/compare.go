package compare

import (
	"fmt"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// Compare matches the nodes of two scene graphs and classifies the changes.
// It fails only when opts is invalid.
func Compare(before, after *scene.SceneGraph, opts Options) (*ChangeReport, error) {
	if err := opts.Classify.Validate(); err != nil {
		return nil, err
	}
	matches, err := MatchNodes(before, after, opts.Match)
	if err != nil {
		return nil, err
	}
	return Classify(before, after, matches, opts.Classify), nil
}

// CompareObjects builds graphs for two object lists and compares them.
// Each list is built with the options of its own source image.
func CompareObjects(before, after []scene.SceneObject, beforeBuild, afterBuild scene.BuildOptions, opts Options) (*ChangeReport, error) {
	bg, err := scene.Build(before, beforeBuild)
	if err != nil {
		return nil, fmt.Errorf("before scene: %w", err)
	}
	ag, err := scene.Build(after, afterBuild)
	if err != nil {
		return nil, fmt.Errorf("after scene: %w", err)
	}
	return Compare(bg, ag, opts)
}
