package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImageSize = 1000

// objectAt builds a 20x20 object centered at (cx, cy) in a 1000x1000 image.
func objectAt(label string, cx, cy int) SceneObject {
	return SceneObject{
		Label:      label,
		Position:   Position{float64(cx) / testImageSize, float64(cy) / testImageSize},
		Center:     Pixel{cx, cy},
		BBox:       BoundingBox{cx - 10, cy - 10, cx + 10, cy + 10},
		Area:       400,
		Confidence: 0.9,
	}
}

func testOptions() BuildOptions {
	return DefaultBuildOptions(testImageSize, testImageSize)
}

func TestBuild_SkipsUnknownObjects(t *testing.T) {
	objects := []SceneObject{
		objectAt("cup", 100, 100),
		objectAt(UnknownLabel, 110, 110),
		objectAt("plate", 150, 100),
		objectAt(UnknownLabel, 800, 800),
		objectAt("fork", 900, 900),
	}

	g, err := Build(objects, testOptions())
	require.NoError(t, err)

	require.Equal(t, 3, g.NodeCount())
	for _, n := range g.Nodes() {
		assert.NotEqual(t, UnknownLabel, n.Label)
	}

	wantMapping := map[int]int{0: 0, 2: 1, 4: 2}
	assert.Equal(t, wantMapping, g.IndexMapping())

	plate, ok := g.Node(1)
	require.True(t, ok)
	assert.Equal(t, "plate", plate.Label)
	assert.Equal(t, 2, plate.OriginalIndex)

	_, ok = g.NodeForIndex(1)
	assert.False(t, ok, "unknown object must not map to a node")
}

func TestBuild_DenseIDsInEncounterOrder(t *testing.T) {
	objects := []SceneObject{
		objectAt(UnknownLabel, 0, 0),
		objectAt("a", 100, 100),
		objectAt("b", 500, 500),
	}
	g, err := Build(objects, testOptions())
	require.NoError(t, err)

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, 0, nodes[0].ID)
	assert.Equal(t, "a", nodes[0].Label)
	assert.Equal(t, 1, nodes[1].ID)
	assert.Equal(t, "b", nodes[1].Label)
}

func TestBuild_DistanceThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		wantEdge bool
	}{
		{"exactly at threshold", 150, true},
		{"just beyond threshold", 151, false},
		{"well inside", 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := []SceneObject{objectAt("a", 100, 300), objectAt("b", 100+tt.offset, 300)}
			g, err := Build(objects, testOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.wantEdge, g.HasEdge(0, 1))
		})
	}
}

func TestBuild_EdgeAttributes(t *testing.T) {
	objects := []SceneObject{objectAt("a", 100, 100), objectAt("b", 190, 220)}
	g, err := Build(objects, testOptions())
	require.NoError(t, err)
	require.Equal(t, 1, g.EdgeCount())

	e, ok := g.Edge(0, 1)
	require.True(t, ok)
	assert.Equal(t, 0, e.Source)
	assert.Equal(t, 1, e.Target)
	assert.InDelta(t, 150.0, e.Distance, 1e-9)

	wantLabel, wantNorm, err := InferRelationship(Pixel{100, 100}, Pixel{190, 220}, testImageSize, testImageSize)
	require.NoError(t, err)
	assert.Equal(t, wantLabel, e.Relationship)
	assert.InDelta(t, wantNorm, e.NormalizedDistance, 1e-12)
	assert.InDelta(t, 1-wantNorm, e.Weight, 1e-12)
}

func TestBuild_EdgeSymmetryAndNoSelfLoops(t *testing.T) {
	objects := []SceneObject{
		objectAt("a", 100, 100),
		objectAt("b", 200, 100),
		objectAt("c", 150, 200),
		objectAt("d", 120, 150),
		objectAt("e", 900, 900),
	}
	g, err := Build(objects, testOptions())
	require.NoError(t, err)
	require.NotZero(t, g.EdgeCount())

	for _, e := range g.Edges() {
		assert.NotEqual(t, e.Source, e.Target)
		assert.Less(t, e.Source, e.Target)

		uv, ok := g.Edge(e.Source, e.Target)
		require.True(t, ok)
		vu, ok := g.Edge(e.Target, e.Source)
		require.True(t, ok)
		assert.Equal(t, uv, vu)

		fwd, ok := g.Relation(e.Source, e.Target)
		require.True(t, ok)
		back, ok := g.Relation(e.Target, e.Source)
		require.True(t, ok)
		assert.Equal(t, e.Relationship, fwd)
		assert.Equal(t, InverseRelationship(fwd), back)
	}

	for id := 0; id < g.NodeCount(); id++ {
		assert.False(t, g.HasEdge(id, id))
		assert.NotContains(t, g.Neighbors(id), id)
	}
	assert.Equal(t, 0, g.Degree(4))
}

func TestBuild_Centrality(t *testing.T) {
	// A path a - b - c plus an isolated node d.
	objects := []SceneObject{
		objectAt("a", 100, 500),
		objectAt("b", 200, 500),
		objectAt("c", 300, 500),
		objectAt("d", 900, 100),
	}
	g, err := Build(objects, testOptions())
	require.NoError(t, err)
	require.Equal(t, 2, g.EdgeCount())
	require.False(t, g.HasEdge(0, 2))

	nodes := g.Nodes()
	assert.InDelta(t, 1.0/3, nodes[0].Centrality, 1e-12)
	assert.InDelta(t, 2.0/3, nodes[1].Centrality, 1e-12)
	assert.InDelta(t, 1.0/3, nodes[2].Centrality, 1e-12)
	assert.InDelta(t, 0.0, nodes[3].Centrality, 1e-12)

	// b lies on the single a-c shortest path: 1 of (n-1)(n-2)/2 = 3 pairs.
	assert.InDelta(t, 0.0, nodes[0].Betweenness, 1e-12)
	assert.InDelta(t, 1.0/3, nodes[1].Betweenness, 1e-12)
	assert.InDelta(t, 0.0, nodes[2].Betweenness, 1e-12)
	assert.InDelta(t, 0.0, nodes[3].Betweenness, 1e-12)
}

func TestBuild_SmallGraphs(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		g, err := Build(nil, testOptions())
		require.NoError(t, err)
		assert.Equal(t, 0, g.NodeCount())
		assert.Equal(t, 0, g.EdgeCount())
		assert.Equal(t, 0.0, g.Density())
		assert.Empty(t, g.IndexMapping())
	})

	t.Run("only unknown", func(t *testing.T) {
		g, err := Build([]SceneObject{objectAt(UnknownLabel, 1, 1)}, testOptions())
		require.NoError(t, err)
		assert.Equal(t, 0, g.NodeCount())
	})

	t.Run("single node", func(t *testing.T) {
		g, err := Build([]SceneObject{objectAt("lamp", 500, 500)}, testOptions())
		require.NoError(t, err)
		n, ok := g.Node(0)
		require.True(t, ok)
		assert.Equal(t, 0.0, n.Centrality)
		assert.Equal(t, 0.0, n.Betweenness)
		assert.Equal(t, 0, g.EdgeCount())
	})

	t.Run("two connected nodes", func(t *testing.T) {
		g, err := Build([]SceneObject{objectAt("a", 500, 500), objectAt("b", 520, 500)}, testOptions())
		require.NoError(t, err)
		for _, n := range g.Nodes() {
			assert.Equal(t, 1.0, n.Centrality)
			assert.Equal(t, 0.0, n.Betweenness)
		}
		assert.Equal(t, 1.0, g.Density())
	})
}

func TestBuild_RelationshipThresholdDoesNotGateEdges(t *testing.T) {
	objects := []SceneObject{objectAt("a", 100, 100), objectAt("b", 200, 100)}

	low := testOptions()
	low.RelationshipThreshold = 0
	high := testOptions()
	high.RelationshipThreshold = 0.99

	gLow, err := Build(objects, low)
	require.NoError(t, err)
	gHigh, err := Build(objects, high)
	require.NoError(t, err)

	assert.Equal(t, gLow.Edges(), gHigh.Edges())
	assert.Equal(t, 0.99, gHigh.RelationshipThreshold())
}

func TestBuild_Validation(t *testing.T) {
	valid := []SceneObject{objectAt("a", 100, 100)}

	tests := []struct {
		name    string
		objects []SceneObject
		mutate  func(*BuildOptions)
		wantErr error
	}{
		{"zero width", valid, func(o *BuildOptions) { o.ImageWidth = 0 }, ErrInvalidInput},
		{"negative height", valid, func(o *BuildOptions) { o.ImageHeight = -1 }, ErrInvalidInput},
		{"zero distance threshold", valid, func(o *BuildOptions) { o.DistanceThreshold = 0 }, ErrConfiguration},
		{"negative relationship threshold", valid, func(o *BuildOptions) { o.RelationshipThreshold = -0.1 }, ErrConfiguration},
		{"missing label", []SceneObject{{Position: Position{0.1, 0.1}}}, nil, ErrInvalidInput},
		{"position out of range", []SceneObject{{Label: "a", Position: Position{1.2, 0.1}}}, nil, ErrInvalidInput},
		{"confidence out of range", []SceneObject{{Label: "a", Confidence: 1.5}}, nil, ErrInvalidInput},
		{"negative area", []SceneObject{{Label: "a", Area: -3}}, nil, ErrInvalidInput},
		{"inverted bbox", []SceneObject{{Label: "a", BBox: BoundingBox{50, 10, 40, 20}}}, nil, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			if tt.mutate != nil {
				tt.mutate(&opts)
			}
			g, err := Build(tt.objects, opts)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestBuild_DoesNotRetainInputSlice(t *testing.T) {
	objects := []SceneObject{objectAt("a", 100, 100)}
	g, err := Build(objects, testOptions())
	require.NoError(t, err)

	objects[0].Label = "changed"
	n, _ := g.Node(0)
	assert.Equal(t, "a", n.Label)

	nodes := g.Nodes()
	nodes[0].Label = "mutated"
	n, _ = g.Node(0)
	assert.Equal(t, "a", n.Label)
}
