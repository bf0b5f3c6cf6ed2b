package compare

import (
	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// Classify partitions the nodes of two graphs into appeared, disappeared,
// matched and moved, and diffs their relationships under the node
// correspondence given by matches.
//
// Relationship changes are found in two passes. First, every before edge whose
// endpoints are both matched is looked up in after: a different label is a
// "changed" delta, a missing edge is "lost". Second, every after edge whose
// endpoints both map back to before nodes that were not related is "gained".
// Labels are compared in the orientation of the before pair, so a matching
// that swaps the id order of a pair does not produce a spurious change.
//
// Parameters:
//   - before, after: The graphs being compared.
//   - matches: Node correspondence, usually from MatchNodes.
//   - opts: Movement threshold. See ClassifyOptions.
//
// Returns:
//   - *ChangeReport: Every list is non-nil. Metrics are filled in.
//
// Classify never fails: empty graphs on either side yield empty lists.
// Matches referencing nodes that do not exist, or reusing a node, are ignored.
func Classify(before, after *scene.SceneGraph, matches []Match, opts ClassifyOptions) *ChangeReport {
	report := &ChangeReport{
		Appeared:            []ObjectRef{},
		Disappeared:         []ObjectRef{},
		Matched:             []Match{},
		Moved:               []Match{},
		RelationshipChanges: []RelationshipDelta{},
		IDMapping:           make(map[int]int, len(matches)),
	}

	forward := make(map[int]int, len(matches))
	backward := make(map[int]int, len(matches))
	for _, m := range matches {
		if _, ok := before.Node(m.BeforeID); !ok {
			continue
		}
		if _, ok := after.Node(m.AfterID); !ok {
			continue
		}
		if _, dup := forward[m.BeforeID]; dup {
			continue
		}
		if _, dup := backward[m.AfterID]; dup {
			continue
		}
		forward[m.BeforeID] = m.AfterID
		backward[m.AfterID] = m.BeforeID
		report.IDMapping[m.BeforeID] = m.AfterID

		report.Matched = append(report.Matched, m)
		if m.PositionChange > opts.MovementThreshold {
			report.Moved = append(report.Moved, m)
		}
	}

	for _, n := range before.Nodes() {
		if _, ok := forward[n.ID]; !ok {
			report.Disappeared = append(report.Disappeared, refOf(n))
		}
	}
	for _, n := range after.Nodes() {
		if _, ok := backward[n.ID]; !ok {
			report.Appeared = append(report.Appeared, refOf(n))
		}
	}

	report.RelationshipChanges = diffRelationships(before, after, forward, backward)
	report.Metrics = summarize(before, after, report)
	return report
}

func diffRelationships(before, after *scene.SceneGraph, forward, backward map[int]int) []RelationshipDelta {
	deltas := []RelationshipDelta{}
	seen := make(map[[2]int]bool)

	for _, e := range before.Edges() {
		au, okU := forward[e.Source]
		av, okV := forward[e.Target]
		if !okU || !okV {
			continue
		}

		delta := RelationshipDelta{
			BeforeNodes:        [2]int{e.Source, e.Target},
			AfterNodes:         [2]int{au, av},
			BeforeRelationship: e.Relationship,
			Labels:             [2]string{labelOf(before, e.Source), labelOf(before, e.Target)},
		}
		afterRel, related := after.Relation(au, av)
		switch {
		case !related:
			delta.Kind = DeltaLost
			delta.AfterRelationship = scene.NoRelationship
		case afterRel != e.Relationship:
			delta.Kind = DeltaChanged
			delta.AfterRelationship = afterRel
		default:
			continue
		}
		seen[pairOf(e.Source, e.Target)] = true
		deltas = append(deltas, delta)
	}

	for _, e := range after.Edges() {
		bu, okU := backward[e.Source]
		bv, okV := backward[e.Target]
		if !okU || !okV {
			continue
		}
		if before.HasEdge(bu, bv) || seen[pairOf(bu, bv)] {
			continue
		}
		seen[pairOf(bu, bv)] = true
		deltas = append(deltas, RelationshipDelta{
			Kind:               DeltaGained,
			BeforeNodes:        [2]int{bu, bv},
			AfterNodes:         [2]int{e.Source, e.Target},
			BeforeRelationship: scene.NoRelationship,
			AfterRelationship:  e.Relationship,
			Labels:             [2]string{labelOf(after, e.Source), labelOf(after, e.Target)},
		})
	}

	return deltas
}

func summarize(before, after *scene.SceneGraph, r *ChangeReport) Metrics {
	m := Metrics{
		BeforeObjectCount:       before.NodeCount(),
		AfterObjectCount:        after.NodeCount(),
		AppearedCount:           len(r.Appeared),
		DisappearedCount:        len(r.Disappeared),
		MovedCount:              len(r.Moved),
		MatchedCount:            len(r.Matched),
		RelationshipChangeCount: len(r.RelationshipChanges),
		BeforeRelationshipCount: before.EdgeCount(),
		AfterRelationshipCount:  after.EdgeCount(),
		BeforeDensity:           before.Density(),
		AfterDensity:            after.Density(),
	}
	for _, d := range r.RelationshipChanges {
		switch d.Kind {
		case DeltaChanged:
			m.ChangedRelationships++
		case DeltaLost:
			m.LostRelationships++
		case DeltaGained:
			m.GainedRelationships++
		}
	}
	return m
}

func pairOf(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

func labelOf(g *scene.SceneGraph, id int) string {
	n, _ := g.Node(id)
	return n.Label
}
