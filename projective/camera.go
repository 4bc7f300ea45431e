package projective

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
	"github.com/yugokatsuki/autocalib/sfm"
)

// DecomposeCameraMatrix factors a 3x4 projective matrix P into a
// sfm.RigidCamera (K, R, T) by RQ-decomposing P[:, 0:3] into K*R, solving
// T = K^-1 * P[:, 3], normalizing K by K(2,2), and applying the sign
// repair from the data model: if both K(0,0) and K(1,1) come out negative,
// columns 0,1 of K, rows 0,1 of R, and components 0,1 of T are negated.
func DecomposeCameraMatrix(p *mat.Dense) (sfm.RigidCamera, error) {
	m := mat.DenseCopyOf(p.Slice(0, 3, 0, 3))
	k, r := rq3(m)

	var kInv mat.Dense
	if err := kInv.Inverse(k); err != nil {
		return sfm.RigidCamera{}, err
	}
	lastCol := mat.NewDense(3, 1, []float64{p.At(0, 3), p.At(1, 3), p.At(2, 3)})
	var tVec mat.Dense
	tVec.Mul(&kInv, lastCol)

	scale := k.At(2, 2)
	k.Scale(1/scale, k)

	if k.At(0, 0) < 0 && k.At(1, 1) < 0 {
		for col := 0; col < 2; col++ {
			for c := 0; c < 3; c++ {
				k.Set(c, col, -k.At(c, col))
			}
		}
		for row := 0; row < 2; row++ {
			for c := 0; c < 3; c++ {
				r.Set(row, c, -r.At(row, c))
			}
		}
		tVec.Set(0, 0, -tVec.At(0, 0))
		tVec.Set(1, 0, -tVec.At(1, 0))
	}

	t := r3.Vector{X: tVec.At(0, 0), Y: tVec.At(1, 0), Z: tVec.At(2, 0)}
	return sfm.RigidCamera{K: sfm.NewCalibrationMatrix(k), R: r, T: t}, nil
}

// rq3 RQ-decomposes the 3x3 matrix m into K*R with K upper triangular,
// positive diagonal, and R orthogonal, following Hartley & Zisserman
// A4.1.1: flip through the antidiagonal, run a standard QR, then flip
// back and repair the diagonal sign (negating column i of K together with
// row i of R, which leaves K*R unchanged).
func rq3(m *mat.Dense) (k, r *mat.Dense) {
	j := matx.Antidiag(3)

	var flipped mat.Dense
	flipped.Mul(j, m)
	flippedT := transposeDense(&flipped)

	var qrFact mat.QR
	qrFact.Factorize(flippedT)
	var q, rUp mat.Dense
	qrFact.QTo(&q)
	qrFact.RTo(&rUp)

	qT := transposeDense(&q)
	rUpT := transposeDense(&rUp)

	var u, tmp mat.Dense
	tmp.Mul(j, rUpT)
	u.Mul(&tmp, j)

	var rOut mat.Dense
	rOut.Mul(j, qT)

	for i := 0; i < 3; i++ {
		if u.At(i, i) < 0 {
			for c := 0; c < 3; c++ {
				u.Set(c, i, -u.At(c, i))
				rOut.Set(i, c, -rOut.At(i, c))
			}
		}
	}
	return &u, &rOut
}
