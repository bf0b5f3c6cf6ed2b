package scene

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GraphMetadata summarizes a graph document.
type GraphMetadata struct {
	NodeCount             int     `json:"node_count"`
	EdgeCount             int     `json:"edge_count"`
	GraphDensity          float64 `json:"graph_density"`
	RelationshipThreshold float64 `json:"relationship_threshold"`
}

// graphDocument is the serialized form of a SceneGraph. Index mapping keys are
// strings because JSON object keys must be.
type graphDocument struct {
	Nodes        []SceneNode    `json:"nodes"`
	Edges        []SceneEdge    `json:"edges"`
	IndexMapping map[string]int `json:"index_mapping"`
	Metadata     GraphMetadata  `json:"metadata"`
}

// Metadata returns the graph's summary counts.
func (g *SceneGraph) Metadata() GraphMetadata {
	return GraphMetadata{
		NodeCount:             g.NodeCount(),
		EdgeCount:             g.EdgeCount(),
		GraphDensity:          g.Density(),
		RelationshipThreshold: g.relationshipThreshold,
	}
}

// MarshalJSON encodes the graph as a nodes/edges document.
func (g *SceneGraph) MarshalJSON() ([]byte, error) {
	doc := graphDocument{
		Nodes:        g.Nodes(),
		Edges:        g.Edges(),
		IndexMapping: make(map[string]int, len(g.indexMapping)),
		Metadata:     g.Metadata(),
	}
	for orig, id := range g.indexMapping {
		doc.IndexMapping[strconv.Itoa(orig)] = id
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a graph document and rebuilds the adjacency index.
// Documents with self-loops, duplicate edges, dangling endpoints or
// non-dense node ids are rejected with ErrInvalidInput. A missing
// index_mapping is reconstructed from the nodes' original indexes.
func (g *SceneGraph) UnmarshalJSON(data []byte) error {
	const op = "decode graph"

	var doc graphDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return &Error{Kind: KindInvalidInput, Op: op, Message: "malformed graph document", Cause: err}
	}

	for _, n := range doc.Nodes {
		if n.Label == "" {
			return InvalidInput(op, "node %d has no label", n.ID)
		}
	}

	var mapping map[int]int
	if doc.IndexMapping != nil {
		mapping = make(map[int]int, len(doc.IndexMapping))
		for k, id := range doc.IndexMapping {
			orig, err := strconv.Atoi(k)
			if err != nil {
				return InvalidInput(op, "index_mapping key %q is not an integer", k)
			}
			if id < 0 || id >= len(doc.Nodes) {
				return InvalidInput(op, "index_mapping %d -> %d references a missing node", orig, id)
			}
			mapping[orig] = id
		}
	}

	built, err := newSceneGraph(doc.Nodes, doc.Edges, mapping)
	if err != nil {
		return err
	}
	built.relationshipThreshold = doc.Metadata.RelationshipThreshold
	*g = *built
	return nil
}

// ParseGraph decodes a graph document.
func ParseGraph(data []byte) (*SceneGraph, error) {
	var g SceneGraph
	if err := g.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("parse scene graph: %w", err)
	}
	return &g, nil
}
