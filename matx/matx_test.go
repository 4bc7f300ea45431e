package matx

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func maxAbsDiff(a, b *mat.Dense) float64 {
	ra, ca := a.Dims()
	max := 0.0
	for i := 0; i < ra; i++ {
		for j := 0; j < ca; j++ {
			d := a.At(i, j) - b.At(i, j)
			if d < 0 {
				d = -d
			}
			if d > max {
				max = d
			}
		}
	}
	return max
}

func TestAntidiagIsSelfInverse(t *testing.T) {
	j := Antidiag(3)
	test.That(t, j.At(0, 2), test.ShouldEqual, 1.0)
	test.That(t, j.At(1, 1), test.ShouldEqual, 1.0)
	test.That(t, j.At(2, 0), test.ShouldEqual, 1.0)
	test.That(t, j.At(0, 0), test.ShouldEqual, 0.0)

	var sq mat.Dense
	sq.Mul(j, j)
	id := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	test.That(t, maxAbsDiff(&sq, id) < 1e-12, test.ShouldBeTrue)
}

func TestDecomposeCholeskyRoundTrip(t *testing.T) {
	l := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		2, 3, 0,
		4, 5, 6,
	})
	var m mat.Dense
	m.Mul(l, l.T())

	got, ok := DecomposeCholesky(&m)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, maxAbsDiff(got, l) < 1e-6, test.ShouldBeTrue)
}

func TestDecomposeCholeskyRejectsNegativeDefinite(t *testing.T) {
	l := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		2, 3, 0,
		4, 5, 6,
	})
	var m mat.Dense
	m.Mul(l, l.T())
	m.Scale(-1, &m)

	_, ok := DecomposeCholesky(&m)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestDecomposeUUtRoundTrip(t *testing.T) {
	u := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		0, 4, 5,
		0, 0, 6,
	})
	var m mat.Dense
	m.Mul(u, u.T())

	got, ok := DecomposeUUt(&m)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, maxAbsDiff(got, u) < 1e-3, test.ShouldBeTrue)
}

func TestCrossProductMat(t *testing.T) {
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	w := r3.Vector{X: 4, Y: 5, Z: 6}
	wantX := v.Cross(w)

	cm := CrossProductMat(v)
	wv := mat.NewVecDense(3, []float64{w.X, w.Y, w.Z})
	var got mat.VecDense
	got.MulVec(cm, wv)

	test.That(t, got.AtVec(0), test.ShouldAlmostEqual, wantX.X)
	test.That(t, got.AtVec(1), test.ShouldAlmostEqual, wantX.Y)
	test.That(t, got.AtVec(2), test.ShouldAlmostEqual, wantX.Z)
}

func TestEigenDecomposeRecoversDiagonalEigenvalues(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{2, 0, 0, 3})
	res, err := EigenDecompose(m)
	test.That(t, err, test.ShouldBeNil)

	found2, found3 := false, false
	for i, re := range res.ValuesReal {
		test.That(t, res.ValuesImag[i], test.ShouldAlmostEqual, 0.0)
		if re > 2.5 {
			found3 = true
		} else {
			found2 = true
		}
	}
	test.That(t, found2, test.ShouldBeTrue)
	test.That(t, found3, test.ShouldBeTrue)
}
