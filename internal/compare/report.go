package compare

import (
	"fmt"
	"strings"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// DeltaKind classifies a relationship change.
type DeltaKind string

const (
	// DeltaChanged means both graphs relate the pair, with different labels.
	DeltaChanged DeltaKind = "changed"
	// DeltaLost means the pair was related before and is not after.
	DeltaLost DeltaKind = "lost"
	// DeltaGained means the pair is related after and was not before.
	DeltaGained DeltaKind = "gained"
)

// ObjectRef identifies a node that appeared or disappeared.
type ObjectRef struct {
	ID            int            `json:"id"`
	OriginalIndex int            `json:"original_index"`
	Label         string         `json:"label"`
	Position      scene.Position `json:"position"`
}

func refOf(n scene.SceneNode) ObjectRef {
	return ObjectRef{ID: n.ID, OriginalIndex: n.OriginalIndex, Label: n.Label, Position: n.Pos}
}

// RelationshipDelta records how the relationship of one matched pair changed.
//
// BeforeNodes and AfterNodes are corresponding endpoints: AfterNodes[i] is the
// match of BeforeNodes[i]. Both relationship labels are oriented from the
// first endpoint to the second; the absent side of a gained or lost
// relationship is "none".
type RelationshipDelta struct {
	Kind               DeltaKind `json:"kind"`
	BeforeNodes        [2]int    `json:"before_nodes"`
	AfterNodes         [2]int    `json:"after_nodes"`
	BeforeRelationship string    `json:"before_relationship"`
	AfterRelationship  string    `json:"after_relationship"`
	Labels             [2]string `json:"labels"`
}

// Metrics aggregates counts over a comparison.
type Metrics struct {
	BeforeObjectCount       int     `json:"before_object_count"`
	AfterObjectCount        int     `json:"after_object_count"`
	AppearedCount           int     `json:"appeared_count"`
	DisappearedCount        int     `json:"disappeared_count"`
	MovedCount              int     `json:"moved_count"`
	MatchedCount            int     `json:"matched_count"`
	RelationshipChangeCount int     `json:"relationship_change_count"`
	ChangedRelationships    int     `json:"changed_relationship_count"`
	LostRelationships       int     `json:"lost_relationship_count"`
	GainedRelationships     int     `json:"gained_relationship_count"`
	BeforeRelationshipCount int     `json:"before_relationship_count"`
	AfterRelationshipCount  int     `json:"after_relationship_count"`
	BeforeDensity           float64 `json:"before_density"`
	AfterDensity            float64 `json:"after_density"`
}

// ChangeReport describes what changed between two scenes.
//
// Moved is a subset of Matched. IDMapping maps before node ids to after node
// ids for every match.
type ChangeReport struct {
	Appeared            []ObjectRef         `json:"appeared_objects"`
	Disappeared         []ObjectRef         `json:"disappeared_objects"`
	Matched             []Match             `json:"matched_objects"`
	Moved               []Match             `json:"moved_objects"`
	RelationshipChanges []RelationshipDelta `json:"relationship_changes"`
	Metrics             Metrics             `json:"metrics"`
	IDMapping           map[int]int         `json:"id_mapping"`
}

// Summary renders the headline counts as a short text block.
func (r *ChangeReport) Summary() string {
	var b strings.Builder
	b.WriteString("Scene Change Summary:\n")
	fmt.Fprintf(&b, "- %d new objects appeared\n", r.Metrics.AppearedCount)
	fmt.Fprintf(&b, "- %d objects disappeared\n", r.Metrics.DisappearedCount)
	fmt.Fprintf(&b, "- %d objects moved\n", r.Metrics.MovedCount)
	fmt.Fprintf(&b, "- %d relationships changed\n", r.Metrics.RelationshipChangeCount)
	return b.String()
}
