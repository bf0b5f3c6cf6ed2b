package scene

import "sort"

// SceneGraph is an immutable graph of recognized objects and the spatial
// relationships between nearby pairs.
//
// Nodes live in an arena indexed by their dense id; edges are stored once per
// unordered pair together with an adjacency list. A SceneGraph is populated
// once by Build (or by decoding a graph document) and never mutated afterward,
// so it is safe to share between goroutines.
type SceneGraph struct {
	nodes        []SceneNode
	edges        []SceneEdge
	adjacency    [][]int
	edgeIndex    map[pairKey]int
	indexMapping map[int]int

	relationshipThreshold float64
}

type pairKey struct {
	lo, hi int
}

func keyOf(u, v int) pairKey {
	if u > v {
		u, v = v, u
	}
	return pairKey{lo: u, hi: v}
}

// newSceneGraph assembles a graph and its indexes. Edges given with
// Source > Target are flipped into canonical orientation.
func newSceneGraph(nodes []SceneNode, edges []SceneEdge, indexMapping map[int]int) (*SceneGraph, error) {
	const op = "assemble graph"

	for i, n := range nodes {
		if n.ID != i {
			return nil, InvalidInput(op, "node ids must be dense and ordered: position %d holds id %d", i, n.ID)
		}
		if n.Label == UnknownLabel {
			return nil, InvalidInput(op, "node %d carries the %q label", n.ID, UnknownLabel)
		}
	}

	g := &SceneGraph{
		nodes:        nodes,
		edges:        make([]SceneEdge, 0, len(edges)),
		adjacency:    make([][]int, len(nodes)),
		edgeIndex:    make(map[pairKey]int, len(edges)),
		indexMapping: indexMapping,
	}
	if g.indexMapping == nil {
		g.indexMapping = make(map[int]int, len(nodes))
		for _, n := range nodes {
			g.indexMapping[n.OriginalIndex] = n.ID
		}
	}

	for _, e := range edges {
		if e.Source == e.Target {
			return nil, InvalidInput(op, "self-loop on node %d", e.Source)
		}
		if !g.valid(e.Source) || !g.valid(e.Target) {
			return nil, InvalidInput(op, "edge %d-%d references a missing node", e.Source, e.Target)
		}
		if e.Source > e.Target {
			e.Source, e.Target = e.Target, e.Source
			e.Relationship = InverseRelationship(e.Relationship)
		}
		k := keyOf(e.Source, e.Target)
		if _, dup := g.edgeIndex[k]; dup {
			return nil, InvalidInput(op, "duplicate edge %d-%d", e.Source, e.Target)
		}
		g.edgeIndex[k] = len(g.edges)
		g.edges = append(g.edges, e)
		g.adjacency[e.Source] = append(g.adjacency[e.Source], e.Target)
		g.adjacency[e.Target] = append(g.adjacency[e.Target], e.Source)
	}

	sort.Slice(g.edges, func(i, j int) bool {
		if g.edges[i].Source != g.edges[j].Source {
			return g.edges[i].Source < g.edges[j].Source
		}
		return g.edges[i].Target < g.edges[j].Target
	})
	for i, e := range g.edges {
		g.edgeIndex[keyOf(e.Source, e.Target)] = i
	}
	for _, nbrs := range g.adjacency {
		sort.Ints(nbrs)
	}

	return g, nil
}

func (g *SceneGraph) valid(id int) bool {
	return id >= 0 && id < len(g.nodes)
}

// NodeCount returns the number of nodes.
func (g *SceneGraph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of undirected edges.
func (g *SceneGraph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns a copy of the nodes in id order.
func (g *SceneGraph) Nodes() []SceneNode {
	out := make([]SceneNode, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Node returns the node with the given id.
func (g *SceneGraph) Node(id int) (SceneNode, bool) {
	if !g.valid(id) {
		return SceneNode{}, false
	}
	return g.nodes[id], true
}

// Edges returns a copy of the edges ordered by (Source, Target).
func (g *SceneGraph) Edges() []SceneEdge {
	out := make([]SceneEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Edge returns the edge between u and v. The result is identical for (u,v)
// and (v,u).
func (g *SceneGraph) Edge(u, v int) (SceneEdge, bool) {
	i, ok := g.edgeIndex[keyOf(u, v)]
	if !ok {
		return SceneEdge{}, false
	}
	return g.edges[i], true
}

// HasEdge reports whether u and v are related.
func (g *SceneGraph) HasEdge(u, v int) bool {
	_, ok := g.edgeIndex[keyOf(u, v)]
	return ok
}

// Relation returns the relationship label oriented from u to v, i.e. the
// label InferRelationship gives for (center(u), center(v)).
func (g *SceneGraph) Relation(u, v int) (string, bool) {
	e, ok := g.Edge(u, v)
	if !ok {
		return "", false
	}
	if u == e.Source {
		return e.Relationship, true
	}
	return InverseRelationship(e.Relationship), true
}

// Neighbors returns the ids adjacent to id in ascending order.
func (g *SceneGraph) Neighbors(id int) []int {
	if !g.valid(id) {
		return nil
	}
	out := make([]int, len(g.adjacency[id]))
	copy(out, g.adjacency[id])
	return out
}

// Degree returns the number of edges incident to id.
func (g *SceneGraph) Degree(id int) int {
	if !g.valid(id) {
		return 0
	}
	return len(g.adjacency[id])
}

// NodeForIndex maps a detector output index to its node id. Unknown-labeled
// objects have no node.
func (g *SceneGraph) NodeForIndex(originalIndex int) (int, bool) {
	id, ok := g.indexMapping[originalIndex]
	return id, ok
}

// IndexMapping returns a copy of the original index to node id mapping.
func (g *SceneGraph) IndexMapping() map[int]int {
	out := make(map[int]int, len(g.indexMapping))
	for k, v := range g.indexMapping {
		out[k] = v
	}
	return out
}

// RelationshipThreshold returns the threshold the graph was built with.
func (g *SceneGraph) RelationshipThreshold() float64 {
	return g.relationshipThreshold
}

// Density returns 2|E| / (|V|(|V|-1)), or 0 for graphs with fewer than two nodes.
func (g *SceneGraph) Density() float64 {
	return Density(len(g.nodes), len(g.edges))
}

// Density computes undirected graph density from node and edge counts.
func Density(nodes, edges int) float64 {
	if nodes < 2 {
		return 0
	}
	return 2 * float64(edges) / (float64(nodes) * float64(nodes-1))
}
