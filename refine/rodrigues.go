package refine

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
)

// RodriguesToMat converts an axis-angle 3-vector (rvec.x, rvec.y, rvec.z),
// whose norm is the rotation angle, to a 3x3 rotation matrix via Rodrigues'
// formula: R = I + sin(theta)*[k]x + (1-cos(theta))*[k]x^2, where k is the
// unit axis.
func RodriguesToMat(rvec [3]float64) *mat.Dense {
	theta := math.Sqrt(rvec[0]*rvec[0] + rvec[1]*rvec[1] + rvec[2]*rvec[2])
	if theta < 1e-12 {
		return identity3()
	}
	k := [3]float64{rvec[0] / theta, rvec[1] / theta, rvec[2] / theta}
	kCross := matx.CrossProductMat(r3.Vector{X: k[0], Y: k[1], Z: k[2]})

	var kCross2 mat.Dense
	kCross2.Mul(kCross, kCross)

	r := identity3()
	r.Add(r, scaled(kCross, math.Sin(theta)))
	r.Add(r, scaled(&kCross2, 1-math.Cos(theta)))
	return r
}

// RodriguesFromMat is the inverse map: given a rotation matrix, returns an
// axis-angle 3-vector whose norm is the rotation angle.
func RodriguesFromMat(r *mat.Dense) [3]float64 {
	trace := r.At(0, 0) + r.At(1, 1) + r.At(2, 2)
	cosTheta := (trace - 1) / 2
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	theta := math.Acos(cosTheta)

	if theta < 1e-12 {
		return [3]float64{0, 0, 0}
	}

	axis := [3]float64{
		r.At(2, 1) - r.At(1, 2),
		r.At(0, 2) - r.At(2, 0),
		r.At(1, 0) - r.At(0, 1),
	}
	scale := theta / (2 * math.Sin(theta))
	return [3]float64{axis[0] * scale, axis[1] * scale, axis[2] * scale}
}

func scaled(m *mat.Dense, s float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	out.Scale(s, out)
	return out
}

func identity3() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, 1)
	}
	return m
}
