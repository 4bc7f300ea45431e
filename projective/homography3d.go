package projective

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
)

// antisymPairs enumerates the index pairs (a, b), a < b, spanning the six
// independent antisymmetric 4x4 matrices: E_ab has E_ab(a,b) = 1,
// E_ab(b,a) = -1, zero elsewhere.
var antisymPairs = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

// EstimateHomography3D estimates the 4x4 homogeneous homography H relating
// corresponding 4-vectors xs (domain) to ys (range), by enforcing, for
// every correspondence and every basis antisymmetric 4x4 selector E_ab,
// y^T * E_ab * (H * x) = 0 — i.e. H*x is parallel to y. Each correspondence
// contributes six rows on the 16 entries of H; rows are normalized to unit
// norm before the null vector is solved by SVD. The result is rescaled so
// |det H| = 1.
func EstimateHomography3D(xs, ys []mat.Vector) (*mat.Dense, error) {
	if len(xs) != len(ys) {
		return nil, errors.New("EstimateHomography3D: point sets must have equal length")
	}
	if len(xs) == 0 {
		return nil, errors.New("EstimateHomography3D: need at least one correspondence")
	}

	a := mat.NewDense(6*len(xs), 16, nil)
	for i := range xs {
		x, y := xs[i], ys[i]
		for k, pair := range antisymPairs {
			pA, pB := pair[0], pair[1]
			row := 6*i + k
			for c := 0; c < 4; c++ {
				a.Set(row, pB*4+c, a.At(row, pB*4+c)+y.AtVec(pA)*x.AtVec(c))
				a.Set(row, pA*4+c, a.At(row, pA*4+c)-y.AtVec(pB)*x.AtVec(c))
			}
		}
	}
	rowNormalize(a)

	h := leastSingularVector(a)
	hMat := mat.NewDense(4, 4, h)

	det := mat.Det(hMat)
	if det == 0 {
		return nil, errors.New("EstimateHomography3D: degenerate (singular) homography")
	}
	scale := math.Pow(math.Abs(det), 0.25)
	hMat.Scale(1/scale, hMat)
	return hMat, nil
}

// PlaneAtInfinity extracts the plane at infinity from a 4x4 space
// homography h: it eigen-decomposes h^T and picks the eigenvector whose
// eigenvalue has the smallest absolute imaginary part by a plain linear
// scan (matching CalcPlaneAtInfinity in the original: a single comparison
// key, no secondary tie-break).
func PlaneAtInfinity(h *mat.Dense) ([]float64, error) {
	ht := transposeDense(h)
	res, err := matx.EigenDecompose(ht)
	if err != nil {
		return nil, err
	}

	best := 0
	for i := 1; i < len(res.ValuesImag); i++ {
		if math.Abs(res.ValuesImag[i]) < math.Abs(res.ValuesImag[best]) {
			best = i
		}
	}

	out := make([]float64, 4)
	for i := 0; i < 4; i++ {
		out[i] = res.VectorsReal.At(i, best)
	}
	return out, nil
}
