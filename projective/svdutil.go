package projective

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
)

// leastSingularVector returns the right singular vector associated with
// the smallest singular value of m, i.e. the last column of V. Every
// caller in this package only ever wants that one column, so this returns
// just that column rather than U and the singular values alongside it.
func leastSingularVector(m *mat.Dense) []float64 {
	var svd mat.SVD
	svd.Factorize(m, mat.SVDFull)

	var v mat.Dense
	svd.VTo(&v)

	_, cols := m.Dims()
	col := v.ColView(cols - 1)
	out := make([]float64, cols)
	for i := 0; i < cols; i++ {
		out[i] = col.AtVec(i)
	}
	return out
}

func transposeDense(m *mat.Dense) *mat.Dense {
	return matx.Transpose(m)
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// rowNormalize scales each row of m to unit L2 norm in place.
func rowNormalize(m *mat.Dense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		norm := 0.0
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			norm += v * v
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)/norm)
		}
	}
}
