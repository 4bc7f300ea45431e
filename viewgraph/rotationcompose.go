package viewgraph

import (
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
	"github.com/yugokatsuki/autocalib/sfm"
)

// ComposeAbsoluteRotations walks tree breadth-first from refIdx, which is
// assigned identity, and accumulates R_abs[to] = R_{from->to} * R_abs[from]
// along every discovered tree edge. rel holds a relative rotation for at
// least one direction of each edge; the other direction is obtained by
// transposition.
func ComposeAbsoluteRotations(rel map[sfm.DirectedPair]*mat.Dense, tree *Graph, refIdx int) map[int]*mat.Dense {
	abs := map[int]*mat.Dense{refIdx: identity3()}

	tree.WalkBreadthFirst(refIdx, func(e Edge) {
		r, ok := rel[sfm.DirectedPair{From: e.From, To: e.To}]
		if !ok {
			r = matx.Transpose(rel[sfm.DirectedPair{From: e.To, To: e.From}])
		}
		var composed mat.Dense
		composed.Mul(r, abs[e.From])
		abs[e.To] = &composed
	})
	return abs
}

func identity3() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, 1)
	}
	return m
}
