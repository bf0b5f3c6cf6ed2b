package compare

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

const imageSize = 1000

type placed struct {
	label string
	x, y  float64
}

func object(p placed) scene.SceneObject {
	cx, cy := int(p.x*imageSize), int(p.y*imageSize)
	return scene.SceneObject{
		Label:      p.label,
		Position:   scene.Position{p.x, p.y},
		Center:     scene.Pixel{cx, cy},
		BBox:       scene.BoundingBox{cx - 5, cy - 5, cx + 5, cy + 5},
		Area:       100,
		Confidence: 0.8,
	}
}

func buildGraph(t *testing.T, objs ...placed) *scene.SceneGraph {
	t.Helper()
	objects := make([]scene.SceneObject, len(objs))
	for i, p := range objs {
		objects[i] = object(p)
	}
	g, err := scene.Build(objects, scene.DefaultBuildOptions(imageSize, imageSize))
	require.NoError(t, err)
	return g
}

func mustCompare(t *testing.T, before, after *scene.SceneGraph) *ChangeReport {
	t.Helper()
	report, err := Compare(before, after, DefaultOptions())
	require.NoError(t, err)
	require.NotNil(t, report)
	assertConservation(t, before, after, report)
	return report
}

func assertConservation(t *testing.T, before, after *scene.SceneGraph, r *ChangeReport) {
	t.Helper()
	assert.Equal(t, before.NodeCount(), len(r.Disappeared)+len(r.Matched))
	assert.Equal(t, after.NodeCount(), len(r.Appeared)+len(r.Matched))
}

func TestCompare_AllDisappeared(t *testing.T) {
	before := buildGraph(t, placed{"person", 0.1, 0.1})
	after := buildGraph(t)

	r := mustCompare(t, before, after)
	require.Len(t, r.Disappeared, 1)
	assert.Equal(t, "person", r.Disappeared[0].Label)
	assert.Equal(t, scene.Position{0.1, 0.1}, r.Disappeared[0].Position)
	assert.Empty(t, r.Appeared)
	assert.Empty(t, r.Matched)
	assert.Empty(t, r.Moved)
	assert.Empty(t, r.RelationshipChanges)
}

func TestCompare_AllAppeared(t *testing.T) {
	before := buildGraph(t)
	after := buildGraph(t, placed{"chair", 0.5, 0.5})

	r := mustCompare(t, before, after)
	require.Len(t, r.Appeared, 1)
	assert.Equal(t, "chair", r.Appeared[0].Label)
	assert.Empty(t, r.Disappeared)
	assert.Empty(t, r.Matched)
}

func TestCompare_BothEmpty(t *testing.T) {
	r := mustCompare(t, buildGraph(t), buildGraph(t))
	assert.Empty(t, r.Appeared)
	assert.Empty(t, r.Disappeared)
	assert.Empty(t, r.Matched)
	assert.Empty(t, r.Moved)
	assert.Empty(t, r.RelationshipChanges)
	assert.Equal(t, Metrics{}, r.Metrics)
}

func TestCompare_StationaryObject(t *testing.T) {
	before := buildGraph(t, placed{"box", 0.2, 0.2})
	after := buildGraph(t, placed{"box", 0.2, 0.2})

	r := mustCompare(t, before, after)
	require.Len(t, r.Matched, 1)
	m := r.Matched[0]
	assert.InDelta(t, 1.0, m.Similarity, 1e-9)
	assert.Equal(t, 0.0, m.PositionChange)
	assert.Equal(t, "box", m.Label)
	assert.Empty(t, r.Moved)
	assert.Equal(t, map[int]int{0: 0}, r.IDMapping)
}

func TestCompare_MovedObject(t *testing.T) {
	before := buildGraph(t, placed{"box", 0.2, 0.2})
	after := buildGraph(t, placed{"box", 0.5, 0.2})

	r := mustCompare(t, before, after)
	require.Len(t, r.Matched, 1)
	require.Len(t, r.Moved, 1)
	assert.InDelta(t, 0.3, r.Matched[0].PositionChange, 1e-9)
	assert.Equal(t, r.Matched[0], r.Moved[0])
	assert.InDelta(t, 0.7+0.3*0.7, r.Matched[0].Similarity, 1e-9)
	assert.Equal(t, 1, r.Metrics.MovedCount)
	assert.Equal(t, 1, r.Metrics.MatchedCount)
}

func TestCompare_LostRelationship(t *testing.T) {
	// a and b are 100px apart before (related) and 400px apart after.
	before := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.2, 0.2})
	after := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.5, 0.2})

	rel, ok := before.Relation(0, 1)
	require.True(t, ok)
	require.Equal(t, "aligned_with-level_with", rel)
	require.False(t, after.HasEdge(0, 1))

	r := mustCompare(t, before, after)
	require.Len(t, r.RelationshipChanges, 1)
	d := r.RelationshipChanges[0]
	assert.Equal(t, DeltaLost, d.Kind)
	assert.Equal(t, [2]int{0, 1}, d.BeforeNodes)
	assert.Equal(t, [2]int{0, 1}, d.AfterNodes)
	assert.Equal(t, "aligned_with-level_with", d.BeforeRelationship)
	assert.Equal(t, scene.NoRelationship, d.AfterRelationship)
	assert.Equal(t, [2]string{"a", "b"}, d.Labels)
	assert.Equal(t, 1, r.Metrics.LostRelationships)
}

func TestCompare_LostDirectionalRelationship(t *testing.T) {
	// Wider build threshold so that "left_of-above" pairs are related.
	opts := scene.DefaultBuildOptions(imageSize, imageSize)
	opts.DistanceThreshold = 200
	before, err := scene.Build([]scene.SceneObject{object(placed{"a", 0.1, 0.1}), object(placed{"b", 0.22, 0.22})}, opts)
	require.NoError(t, err)
	after, err := scene.Build([]scene.SceneObject{object(placed{"a", 0.1, 0.1}), object(placed{"b", 0.3, 0.4})}, opts)
	require.NoError(t, err)

	rel, ok := before.Relation(0, 1)
	require.True(t, ok)
	require.Equal(t, "left_of-above", rel)

	r, err := Compare(before, after, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, r.Matched, 2)
	require.Len(t, r.RelationshipChanges, 1)
	assert.Equal(t, "left_of-above", r.RelationshipChanges[0].BeforeRelationship)
	assert.Equal(t, "none", r.RelationshipChanges[0].AfterRelationship)
}

func TestCompare_GainedRelationship(t *testing.T) {
	before := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.5, 0.1})
	after := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.18, 0.1})

	r := mustCompare(t, before, after)
	require.Len(t, r.RelationshipChanges, 1)
	d := r.RelationshipChanges[0]
	assert.Equal(t, DeltaGained, d.Kind)
	assert.Equal(t, scene.NoRelationship, d.BeforeRelationship)
	assert.Equal(t, "aligned_with-level_with", d.AfterRelationship)
	assert.Equal(t, [2]int{0, 1}, d.BeforeNodes)
	assert.Equal(t, [2]int{0, 1}, d.AfterNodes)
	assert.Equal(t, 1, r.Metrics.GainedRelationships)
}

func TestCompare_ChangedRelationship(t *testing.T) {
	opts := scene.DefaultBuildOptions(imageSize, imageSize)
	opts.DistanceThreshold = 200
	before, err := scene.Build([]scene.SceneObject{object(placed{"cup", 0.3, 0.3}), object(placed{"plate", 0.45, 0.3})}, opts)
	require.NoError(t, err)
	after, err := scene.Build([]scene.SceneObject{object(placed{"cup", 0.3, 0.3}), object(placed{"plate", 0.3, 0.45})}, opts)
	require.NoError(t, err)

	r, err := Compare(before, after, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, r.RelationshipChanges, 1)
	d := r.RelationshipChanges[0]
	assert.Equal(t, DeltaChanged, d.Kind)
	assert.Equal(t, "left_of-level_with", d.BeforeRelationship)
	assert.Equal(t, "aligned_with-above", d.AfterRelationship)
	assert.Equal(t, 1, r.Metrics.ChangedRelationships)
}

func TestCompare_SwappedIDOrderIsNotAChange(t *testing.T) {
	// The after scene lists the objects in the opposite order, so the matched
	// pair's canonical edge runs the other way round.
	before := buildGraph(t, placed{"cup", 0.30, 0.30}, placed{"plate", 0.42, 0.30})
	after := buildGraph(t, placed{"plate", 0.42, 0.30}, placed{"cup", 0.30, 0.30})

	r := mustCompare(t, before, after)
	require.Len(t, r.Matched, 2)
	assert.Equal(t, map[int]int{0: 1, 1: 0}, r.IDMapping)
	assert.Empty(t, r.RelationshipChanges)
}

func TestCompare_UnmatchedEndpointsAreIgnored(t *testing.T) {
	before := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.2, 0.1})
	after := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"c", 0.2, 0.1})

	r := mustCompare(t, before, after)
	require.Len(t, r.Matched, 1)
	require.Len(t, r.Appeared, 1)
	require.Len(t, r.Disappeared, 1)
	assert.Equal(t, "c", r.Appeared[0].Label)
	assert.Equal(t, "b", r.Disappeared[0].Label)
	assert.Empty(t, r.RelationshipChanges)
}

func TestCompare_Metrics(t *testing.T) {
	before := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.2, 0.1}, placed{"c", 0.15, 0.2})
	after := buildGraph(t, placed{"a", 0.1, 0.1}, placed{"b", 0.8, 0.8})

	r := mustCompare(t, before, after)
	m := r.Metrics
	assert.Equal(t, 3, m.BeforeObjectCount)
	assert.Equal(t, 2, m.AfterObjectCount)
	assert.Equal(t, 3, m.BeforeRelationshipCount)
	assert.Equal(t, 0, m.AfterRelationshipCount)
	assert.InDelta(t, 1.0, m.BeforeDensity, 1e-12)
	assert.Equal(t, 0.0, m.AfterDensity)
	assert.Equal(t, len(r.Appeared), m.AppearedCount)
	assert.Equal(t, len(r.Disappeared), m.DisappearedCount)
	assert.Equal(t, len(r.RelationshipChanges), m.RelationshipChangeCount)
	assert.Equal(t, m.RelationshipChangeCount, m.ChangedRelationships+m.LostRelationships+m.GainedRelationships)
}

func TestCompare_RejectsBadOptions(t *testing.T) {
	g := buildGraph(t, placed{"a", 0.1, 0.1})

	opts := DefaultOptions()
	opts.Classify.MovementThreshold = 0
	_, err := Compare(g, g, opts)
	assert.True(t, errors.Is(err, scene.ErrConfiguration), "got %v", err)

	opts = DefaultOptions()
	opts.Match.LabelWeight = 0.5
	_, err = Compare(g, g, opts)
	assert.True(t, errors.Is(err, scene.ErrConfiguration), "got %v", err)
}

func TestCompareObjects(t *testing.T) {
	before := []scene.SceneObject{object(placed{"mug", 0.4, 0.4}), object(placed{scene.UnknownLabel, 0.1, 0.1})}
	after := []scene.SceneObject{object(placed{"mug", 0.6, 0.4})}
	build := scene.DefaultBuildOptions(imageSize, imageSize)

	r, err := CompareObjects(before, after, build, build, DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, r.Moved, 1)
	assert.Equal(t, 1, r.Metrics.BeforeObjectCount)

	bad := build
	bad.ImageWidth = 0
	_, err = CompareObjects(before, after, bad, build, DefaultOptions())
	assert.True(t, errors.Is(err, scene.ErrInvalidInput), "got %v", err)
}

func TestChangeReport_Summary(t *testing.T) {
	before := buildGraph(t, placed{"box", 0.2, 0.2}, placed{"lamp", 0.9, 0.9})
	after := buildGraph(t, placed{"box", 0.5, 0.2}, placed{"cat", 0.1, 0.9}, placed{"dog", 0.9, 0.1})

	r := mustCompare(t, before, after)
	want := "Scene Change Summary:\n" +
		"- 2 new objects appeared\n" +
		"- 1 objects disappeared\n" +
		"- 1 objects moved\n" +
		"- 0 relationships changed\n"
	assert.Equal(t, want, r.Summary())
}

func TestClassify_IgnoresInvalidMatches(t *testing.T) {
	before := buildGraph(t, placed{"a", 0.1, 0.1})
	after := buildGraph(t, placed{"a", 0.1, 0.1})

	matches := []Match{
		{BeforeID: 0, AfterID: 0},
		{BeforeID: 0, AfterID: 0},
		{BeforeID: 7, AfterID: 0},
	}
	r := Classify(before, after, matches, DefaultClassifyOptions())
	assert.Len(t, r.Matched, 1)
	assertConservation(t, before, after, r)
}
