package scene

import (
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"
)

// centrality computes normalized degree and betweenness centrality for every
// node, using the same normalization as networkx:
//
//	degree      = deg(v) / (n-1)
//	betweenness = C_B(v) / ((n-1)(n-2))
//
// gonum's Brandes implementation sums over ordered (s,t) pairs, which for an
// undirected graph counts every shortest path twice; the (n-1)(n-2) divisor
// already accounts for that. Graphs too small to have paths yield zeros.
func centrality(nodes []SceneNode, edges []SceneEdge) (degree, betweenness []float64) {
	n := len(nodes)
	degree = make([]float64, n)
	betweenness = make([]float64, n)
	if n < 2 {
		return degree, betweenness
	}

	g := simple.NewUndirectedGraph()
	for _, node := range nodes {
		g.AddNode(simple.Node(int64(node.ID)))
	}
	for _, e := range edges {
		g.SetEdge(g.NewEdge(simple.Node(int64(e.Source)), simple.Node(int64(e.Target))))
	}

	for _, node := range nodes {
		degree[node.ID] = float64(g.From(int64(node.ID)).Len()) / float64(n-1)
	}

	if n < 3 {
		return degree, betweenness
	}
	scale := 1 / (float64(n-1) * float64(n-2))
	for id, cb := range network.Betweenness(g) {
		betweenness[id] = cb * scale
	}
	return degree, betweenness
}
