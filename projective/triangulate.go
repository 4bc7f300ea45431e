package projective

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// scaledByFrobeniusNorm returns p scaled to unit Frobenius norm.
func scaledByFrobeniusNorm(p *mat.Dense) *mat.Dense {
	norm := mat.Norm(p, 2)
	out := mat.DenseCopyOf(p)
	out.Scale(1/norm, out)
	return out
}

// TriangulatePointsDLT triangulates homogeneous 3D points from two views by
// the direct linear transform. p1, p2 are each unit-Frobenius-normalized
// before use; pts1, pts2 are per-view image points, each normalized with
// its own isotropic NormalizationMat before the camera matrices are
// premultiplied by the corresponding normalization transform.
func TriangulatePointsDLT(p1, p2 *mat.Dense, pts1, pts2 []r2.Point) ([]r3.Vector, error) {
	if len(pts1) != len(pts2) {
		return nil, errors.New("TriangulatePointsDLT: point sets must have equal length")
	}

	p1n := scaledByFrobeniusNorm(p1)
	p2n := scaledByFrobeniusNorm(p2)

	t1, norm1 := NormalizationMat(pts1)
	t2, norm2 := NormalizationMat(pts2)

	var p1t, p2t mat.Dense
	p1t.Mul(t1, p1n)
	p2t.Mul(t2, p2n)

	out := make([]r3.Vector, len(pts1))
	for i := range pts1 {
		a := mat.NewDense(4, 4, nil)
		fillDLTRows(a, 0, norm1[i], &p1t)
		fillDLTRows(a, 2, norm2[i], &p2t)
		rowNormalize(a)

		v := leastSingularVector(a)
		out[i] = r3.Vector{X: v[0] / v[3], Y: v[1] / v[3], Z: v[2] / v[3]}
	}
	return out, nil
}

// fillDLTRows writes the two DLT constraint rows for a point pt against
// camera matrix p into rows startRow and startRow+1 of a.
func fillDLTRows(a *mat.Dense, startRow int, pt r2.Point, p *mat.Dense) {
	for c := 0; c < 4; c++ {
		a.Set(startRow, c, pt.X*p.At(2, c)-p.At(0, c))
		a.Set(startRow+1, c, pt.Y*p.At(2, c)-p.At(1, c))
	}
}
