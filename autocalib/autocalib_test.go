package autocalib

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/sfm"
)

func rotationY(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func rotationX(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func TestCalibrateLinearRecoversSyntheticK(t *testing.T) {
	k := mat.NewDense(3, 3, []float64{
		500, 0, 0,
		0, 500, 0,
		0, 0, 1,
	})
	var kInv mat.Dense
	test.That(t, kInv.Inverse(k), test.ShouldBeNil)

	r2 := rotationY(10 * math.Pi / 180)
	r3 := rotationY(25 * math.Pi / 180)

	homographyFromR := func(r *mat.Dense) *mat.Dense {
		var rt, tmp, h mat.Dense
		rt.CloneFrom(r.T())
		tmp.Mul(k, &rt)
		h.Mul(&tmp, &kInv)
		return &h
	}

	h12 := homographyFromR(r2)
	h13 := homographyFromR(r3)
	// Rotations about the Y axis alone leave W11 out of every constraint
	// row, so one rotation about the X axis is added to pin it down.
	h14 := homographyFromR(rotationX(15 * math.Pi / 180))

	hs := map[sfm.ViewPair]*mat.Dense{
		{I: 0, J: 1}: h12,
		{I: 0, J: 2}: h13,
		{I: 0, J: 3}: h14,
	}

	var residual float64
	got, err := CalibrateLinear(hs, &residual)
	test.That(t, err, test.ShouldBeNil)

	var diff mat.Dense
	diff.Sub(got.Mat(), k)
	relErr := mat.Norm(&diff, 2) / mat.Norm(k, 2)
	test.That(t, relErr < 1e-6, test.ShouldBeTrue)
}

func TestCalibrateLinearFailsWithNoHomographies(t *testing.T) {
	_, err := CalibrateLinear(map[sfm.ViewPair]*mat.Dense{}, nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestCalibrateLinearNoSkewRecoversSyntheticK(t *testing.T) {
	k := mat.NewDense(3, 3, []float64{
		500, 0, 0,
		0, 500, 0,
		0, 0, 1,
	})
	var kInv mat.Dense
	test.That(t, kInv.Inverse(k), test.ShouldBeNil)

	r2 := rotationY(10 * math.Pi / 180)
	r3 := rotationY(25 * math.Pi / 180)

	homographyFromR := func(r *mat.Dense) *mat.Dense {
		var rt, tmp, h mat.Dense
		rt.CloneFrom(r.T())
		tmp.Mul(k, &rt)
		h.Mul(&tmp, &kInv)
		return &h
	}

	hs := map[sfm.ViewPair]*mat.Dense{
		{I: 0, J: 1}: homographyFromR(r2),
		{I: 0, J: 2}: homographyFromR(r3),
		// Needed for the same reason as in the 5-parameter test: Y-axis
		// rotations alone leave Omega11 unconstrained.
		{I: 0, J: 3}: homographyFromR(rotationX(15 * math.Pi / 180)),
	}

	got, err := CalibrateLinearNoSkew(hs, nil)
	test.That(t, err, test.ShouldBeNil)

	var diff mat.Dense
	diff.Sub(got.Mat(), k)
	relErr := mat.Norm(&diff, 2) / mat.Norm(k, 2)
	test.That(t, relErr < 1e-6, test.ShouldBeTrue)
}
