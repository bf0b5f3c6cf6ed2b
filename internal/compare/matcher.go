package compare

import (
	"math"

	"github.com/ironsheep/scene-graph-mcp/internal/scene"
)

// Match is a claimed correspondence between a before node and an after node.
type Match struct {
	BeforeID            int     `json:"before_id"`
	AfterID             int     `json:"after_id"`
	BeforeOriginalIndex int     `json:"before_original_index"`
	AfterOriginalIndex  int     `json:"after_original_index"`
	Label               string  `json:"label"`
	Similarity          float64 `json:"similarity"`
	PositionChange      float64 `json:"position_change"`
}

// Similarity scores how likely two nodes are the same object:
//
//	labelWeight·[labels equal] + positionWeight·max(0, 1 - ‖a.pos - b.pos‖)
func Similarity(a, b scene.SceneNode, opts MatchOptions) float64 {
	labelSim := 0.0
	if a.Label == b.Label {
		labelSim = 1.0
	}
	posSim := math.Max(0, 1-scene.PositionDistance(a.Pos, b.Pos))
	return opts.LabelWeight*labelSim + opts.PositionWeight*posSim
}

// MatchNodes pairs nodes of before with nodes of after.
//
// Matching is greedy and order dependent, not a globally optimal assignment:
// before nodes are visited in id order and each takes the most similar after
// node that is still unclaimed (the lowest id wins ties). A pair is committed
// only when its similarity reaches SimilarityThreshold. Because earlier before
// nodes pick first, a later node can lose its best candidate to an earlier one
// and end up unmatched or matched to its second choice.
//
// Parameters:
//   - before, after: The graphs to pair up. Either may be empty.
//   - opts: Similarity weights and threshold. See MatchOptions.
//
// Returns:
//   - []Match: Committed pairs with their similarity. Never nil.
//   - error: Non-nil only when opts is invalid.
//
// The result is injective in both directions and ordered by BeforeID.
// Cost is O(n·m) similarity evaluations.
//
// # Errors
//
//   - Returns scene.ErrConfiguration if a weight is outside [0, 1]
//   - Returns scene.ErrConfiguration if the weights do not sum to 1
//   - Returns scene.ErrConfiguration if the threshold is outside (0, 1]
func MatchNodes(before, after *scene.SceneGraph, opts MatchOptions) ([]Match, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	afterNodes := after.Nodes()
	claimed := make([]bool, len(afterNodes))
	matches := make([]Match, 0, min(before.NodeCount(), len(afterNodes)))

	for _, b := range before.Nodes() {
		best := -1
		bestSim := math.Inf(-1)
		for j, a := range afterNodes {
			if claimed[j] {
				continue
			}
			if sim := Similarity(b, a, opts); sim > bestSim {
				best, bestSim = j, sim
			}
		}
		if best < 0 || bestSim < opts.SimilarityThreshold {
			continue
		}

		a := afterNodes[best]
		claimed[best] = true
		matches = append(matches, Match{
			BeforeID:            b.ID,
			AfterID:             a.ID,
			BeforeOriginalIndex: b.OriginalIndex,
			AfterOriginalIndex:  a.OriginalIndex,
			Label:               b.Label,
			Similarity:          bestSim,
			PositionChange:      scene.PositionDistance(b.Pos, a.Pos),
		})
	}

	return matches, nil
}
