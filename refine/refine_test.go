package refine

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/sfm"
)

func rotY(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func TestRotationOnlyResidualRefinementIsMonotone(t *testing.T) {
	kTrue := mat.NewDense(3, 3, []float64{500, 0, 320, 0, 500, 240, 0, 0, 1})
	rTrue := rotY(8 * math.Pi / 180)

	kps0 := []sfm.Keypoint{{X: 10, Y: 5}, {X: -20, Y: 15}, {X: 40, Y: -30}, {X: 0, Y: 0}}
	features := map[int][]sfm.Keypoint{0: kps0, 1: make([]sfm.Keypoint, len(kps0))}

	var kInv mat.Dense
	test.That(t, kInv.Inverse(kTrue), test.ShouldBeNil)

	project := func(kpt sfm.Keypoint, r *mat.Dense) sfm.Keypoint {
		p := mat.NewDense(3, 1, []float64{kpt.X, kpt.Y, 1})
		var ray mat.Dense
		ray.Mul(&kInv, p)
		var rotated mat.Dense
		rotated.Mul(r, &ray)
		var out mat.Dense
		out.Mul(kTrue, &rotated)
		return sfm.Keypoint{X: out.At(0, 0) / out.At(2, 0), Y: out.At(1, 0) / out.At(2, 0)}
	}

	for i, kpt := range kps0 {
		features[1][i] = project(kpt, rTrue)
	}

	matches := map[sfm.DirectedPair][]sfm.Match{
		{From: 0, To: 1}: {
			{QueryIdx: 0, TrainIdx: 0}, {QueryIdx: 1, TrainIdx: 1},
			{QueryIdx: 2, TrainIdx: 2}, {QueryIdx: 3, TrainIdx: 3},
		},
	}

	viewOrder := []int{0, 1}
	residual := NewRotationOnlyResidual(features, matches, sfm.RefineAll, viewOrder)

	// Perturb the starting guess away from ground truth.
	kGuess := mat.NewDense(3, 3, []float64{510, 1, 325, 0, 495, 238, 0, 0, 1})
	rGuess := rotY(6 * math.Pi / 180)
	rots := map[int]*mat.Dense{1: rGuess}

	arg := residual.PackInitialArg(sfm.NewCalibrationMatrix(kGuess), viewOrder, rots)

	initialErr := residual.Eval(arg)
	initialRMS := math.Sqrt(sumSquares(initialErr) / float64(len(initialErr)))

	finalRMS := MinimizeLevMarq(residual, arg, DefaultLMOptions())

	test.That(t, finalRMS <= initialRMS+1e-9, test.ShouldBeTrue)
	test.That(t, finalRMS < 1e-4, test.ShouldBeTrue)
}

func TestTwoWayRatioMatchIdempotentOnIdenticalSets(t *testing.T) {
	descs := []Descriptor{
		{0, 0, 0}, {10, 0, 0}, {0, 10, 0}, {0, 0, 10},
	}

	matches := TwoWayRatioMatch(descs, descs, 0.8)
	test.That(t, len(matches), test.ShouldEqual, len(descs))
	for _, m := range matches {
		test.That(t, m.QueryIdx, test.ShouldEqual, m.TrainIdx)
	}
}

func TestIntersectMatchesFindsCommonLeftIndices(t *testing.T) {
	lr1 := []sfm.Match{{QueryIdx: 0, TrainIdx: 100}, {QueryIdx: 1, TrainIdx: 101}}
	lr2 := []sfm.Match{{QueryIdx: 5, TrainIdx: 200}, {QueryIdx: 6, TrainIdx: 201}}
	ll := []sfm.Match{{QueryIdx: 0, TrainIdx: 6}, {QueryIdx: 1, TrainIdx: 999}}

	got := IntersectMatches(lr1, lr2, ll)
	test.That(t, got, test.ShouldResemble, [][2]int{{0, 1}})
}
