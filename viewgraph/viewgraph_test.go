package viewgraph

import (
	"sort"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/sfm"
)

func TestExtractSpanningTreeScenario(t *testing.T) {
	confidences := map[sfm.DirectedPair]float64{
		{From: 0, To: 1}: 0.9,
		{From: 1, To: 2}: 0.8,
		{From: 2, To: 3}: 0.7,
		{From: 1, To: 3}: 0.3,
		{From: 3, To: 4}: 0.6,
	}

	res := ExtractSpanningTree(5, confidences)
	test.That(t, res.Center, test.ShouldEqual, 2)

	_, hasDropped := res.EffectiveConfidences[sfm.DirectedPair{From: 1, To: 3}]
	test.That(t, hasDropped, test.ShouldBeFalse)

	kept := []sfm.DirectedPair{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 3}, {From: 3, To: 4}}
	for _, p := range kept {
		_, ok := res.EffectiveConfidences[p]
		test.That(t, ok, test.ShouldBeTrue)
	}

	leaves := Leaves(res.Tree, []int{0, 1, 2, 3, 4})
	sort.Ints(leaves)
	test.That(t, leaves, test.ShouldResemble, []int{0, 4})
}

func TestComposeAbsoluteRotationsFollowsTreePath(t *testing.T) {
	tree := NewGraph(3)
	tree.AddEdge(0, 1, 1)
	tree.AddEdge(1, 0, 1)
	tree.AddEdge(1, 2, 1)
	tree.AddEdge(2, 1, 1)

	r01 := mat.NewDense(3, 3, []float64{0, -1, 0, 1, 0, 0, 0, 0, 1})
	r12 := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 0, -1, 0, 1, 0})

	rel := map[sfm.DirectedPair]*mat.Dense{
		{From: 0, To: 1}: r01,
		{From: 1, To: 2}: r12,
	}

	abs := ComposeAbsoluteRotations(rel, tree, 0)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			test.That(t, abs[0].At(i, j), test.ShouldAlmostEqual, want, 1e-9)
		}
	}

	var want2 mat.Dense
	want2.Mul(r12, r01)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			test.That(t, abs[2].At(i, j), test.ShouldAlmostEqual, want2.At(i, j), 1e-9)
		}
	}
}
