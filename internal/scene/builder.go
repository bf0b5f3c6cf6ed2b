package scene

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Default build parameters.
const (
	DefaultDistanceThreshold     = 150.0
	DefaultRelationshipThreshold = 0.3
)

// BuildOptions configures Build.
type BuildOptions struct {
	// ImageWidth and ImageHeight are the source image dimensions in pixels.
	// Both must be positive.
	ImageWidth  int
	ImageHeight int

	// DistanceThreshold is the maximum center-to-center pixel distance for two
	// objects to be related. Pairs at exactly this distance are related.
	DistanceThreshold float64

	// RelationshipThreshold is carried on the graph for relationship-strength
	// filtering. It does not gate edge creation.
	RelationshipThreshold float64
}

// DefaultBuildOptions returns options with the default thresholds for an image
// of the given size.
func DefaultBuildOptions(width, height int) BuildOptions {
	return BuildOptions{
		ImageWidth:            width,
		ImageHeight:           height,
		DistanceThreshold:     DefaultDistanceThreshold,
		RelationshipThreshold: DefaultRelationshipThreshold,
	}
}

// Validate checks the options before any work is done.
func (o BuildOptions) Validate() error {
	const op = "build options"
	if o.ImageWidth <= 0 || o.ImageHeight <= 0 {
		return InvalidInput(op, "image dimensions must be positive, got %dx%d", o.ImageWidth, o.ImageHeight)
	}
	if !(o.DistanceThreshold > 0) {
		return Configuration(op, "distance threshold must be positive, got %v", o.DistanceThreshold)
	}
	if !(o.RelationshipThreshold >= 0) {
		return Configuration(op, "relationship threshold must not be negative, got %v", o.RelationshipThreshold)
	}
	return nil
}

// Build turns a detector's object list into a scene graph.
//
// Objects labeled "unknown" are skipped. The remaining objects receive dense
// node ids in input order; the graph's index mapping records which input
// position each node came from. Every pair of nodes whose pixel centers are
// within DistanceThreshold is joined by an edge oriented from the lower id to
// the higher id, and degree/betweenness centrality is attached to each node.
//
// Parameters:
//   - objects: Detector output. Each entry must pass ValidateObject.
//   - opts: Image dimensions and thresholds. See BuildOptions.
//
// Returns:
//   - *SceneGraph: The graph. An empty or all-unknown object list yields a
//     graph with no nodes.
//   - error: Non-nil if opts or any object is invalid. No partial graph is
//     returned.
//
// Pairwise distance computation is O(n²) in the number of objects.
//
// # Errors
//
//   - Returns ErrInvalidInput if the image dimensions are not positive
//   - Returns ErrInvalidInput if an object fails validation
//   - Returns ErrConfiguration if a threshold is out of range
func Build(objects []SceneObject, opts BuildOptions) (*SceneGraph, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for i := range objects {
		if err := ValidateObject(objects[i]); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}

	nodes := make([]SceneNode, 0, len(objects))
	indexMapping := make(map[int]int, len(objects))
	for i, obj := range objects {
		if obj.Label == UnknownLabel {
			continue
		}
		id := len(nodes)
		indexMapping[i] = id
		nodes = append(nodes, SceneNode{
			ID:            id,
			OriginalIndex: i,
			Label:         obj.Label,
			Score:         obj.Confidence,
			Pos:           obj.Position,
			Center:        obj.Center,
			Area:          obj.Area,
			BBox:          obj.BBox,
		})
	}

	var edges []SceneEdge
	for u := 0; u < len(nodes); u++ {
		for v := u + 1; v < len(nodes); v++ {
			dist := PixelDistance(nodes[u].Center, nodes[v].Center)
			if dist > opts.DistanceThreshold {
				continue
			}
			rel, normDist, err := InferRelationship(nodes[u].Center, nodes[v].Center, opts.ImageWidth, opts.ImageHeight)
			if err != nil {
				return nil, err
			}
			edges = append(edges, SceneEdge{
				Source:             u,
				Target:             v,
				Relationship:       rel,
				Distance:           dist,
				NormalizedDistance: normDist,
				Weight:             1 - normDist,
			})
		}
	}

	degree, betweenness := centrality(nodes, edges)
	for i := range nodes {
		nodes[i].Centrality = degree[i]
		nodes[i].Betweenness = betweenness[i]
	}

	g, err := newSceneGraph(nodes, edges, indexMapping)
	if err != nil {
		return nil, err
	}
	g.relationshipThreshold = opts.RelationshipThreshold
	return g, nil
}

// PixelDistance is the Euclidean distance between two pixel centers.
func PixelDistance(a, b Pixel) float64 {
	return floats.Distance(
		[]float64{float64(a.X()), float64(a.Y())},
		[]float64{float64(b.X()), float64(b.Y())},
		2,
	)
}

// PositionDistance is the Euclidean distance between two normalized positions.
func PositionDistance(a, b Position) float64 {
	return floats.Distance(a[:], b[:], 2)
}
