package viewgraph

import (
	"sort"

	"github.com/yugokatsuki/autocalib/sfm"
)

// SpanningTreeResult is the output of ExtractSpanningTree: the chosen
// center view, the effective bidirectional spanning tree of the largest
// connected component, and the confidences retained on each tree edge,
// recorded for both directions. EffectiveConfidences is always filled;
// there is no option to leave it out.
type SpanningTreeResult struct {
	Center               int
	Tree                 *Graph
	EffectiveConfidences map[sfm.DirectedPair]float64
}

// ExtractSpanningTree selects the largest connected component among
// numViews views joined by the directed, confidence-weighted edges in
// confidences, builds its maximum-confidence spanning tree via Kruskal's
// algorithm (each retained edge added bidirectionally), and picks the
// tree's center as the vertex minimizing eccentricity (ties broken by the
// smallest view index encountered first).
func ExtractSpanningTree(numViews int, confidences map[sfm.DirectedPair]float64) SpanningTreeResult {
	uf := newUnionFind(numViews)
	for pair := range confidences {
		uf.union(pair.From, pair.To)
	}

	rootSize := make(map[int]int)
	for i := 0; i < numViews; i++ {
		rootSize[uf.find(i)]++
	}
	maxRoot, maxSize := -1, -1
	for i := 0; i < numViews; i++ {
		r := uf.find(i)
		if rootSize[r] > maxSize {
			maxSize = rootSize[r]
			maxRoot = r
		}
	}

	inMaxComp := make([]bool, numViews)
	var maxComp []int
	for i := 0; i < numViews; i++ {
		if uf.find(i) == maxRoot {
			inMaxComp[i] = true
			maxComp = append(maxComp, i)
		}
	}

	type weightedEdge struct {
		from, to int
		weight   float64
	}
	var candidates []weightedEdge
	for pair, c := range confidences {
		if inMaxComp[pair.From] && inMaxComp[pair.To] {
			candidates = append(candidates, weightedEdge{pair.From, pair.To, c})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight > candidates[j].weight
	})

	tree := NewGraph(numViews)
	effConf := make(map[sfm.DirectedPair]float64)
	degree := make(map[int]int)

	kruskal := newUnionFind(numViews)
	for _, e := range candidates {
		ra, rb := kruskal.find(e.from), kruskal.find(e.to)
		if ra == rb {
			continue
		}
		kruskal.union(ra, rb)
		tree.AddEdge(e.from, e.to, e.weight)
		tree.AddEdge(e.to, e.from, e.weight)
		effConf[sfm.DirectedPair{From: e.from, To: e.to}] = e.weight
		effConf[sfm.DirectedPair{From: e.to, To: e.from}] = e.weight
		degree[e.from]++
		degree[e.to]++
	}

	center, minEcc := maxComp[0], -1
	for _, v := range maxComp {
		ecc := eccentricity(tree, v)
		if minEcc < 0 || ecc < minEcc {
			minEcc = ecc
			center = v
		}
	}

	return SpanningTreeResult{Center: center, Tree: tree, EffectiveConfidences: effConf}
}

// Leaves returns the vertices of degree 1 in g, counting each bidirectional
// pair once per direction so a true leaf has out-degree 1.
func Leaves(g *Graph, vertices []int) []int {
	var out []int
	for _, v := range vertices {
		if g.Degree(v) == 1 {
			out = append(out, v)
		}
	}
	return out
}

// eccentricity returns the maximum hop distance from root to any other
// vertex reachable in the tree.
func eccentricity(tree *Graph, root int) int {
	dist := make(map[int]int)
	tree.WalkBreadthFirst(root, func(e Edge) {
		dist[e.To] = dist[e.From] + 1
	})
	max := 0
	for _, d := range dist {
		if d > max {
			max = d
		}
	}
	return max
}
