package matx

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DecomposeCholesky attempts a Cholesky factorization of the symmetric
// matrix m, working on a copy (m itself is left unchanged) and producing
// the true lower-triangular factor L with
// L*L^T = m (strict upper triangle zeroed). ok is false if m is not
// positive definite, in which case the returned matrix is nil.
func DecomposeCholesky(m *mat.Dense) (l *mat.Dense, ok bool) {
	n, c := m.Dims()
	if n != c {
		return nil, false
	}

	l = mat.DenseCopyOf(m)
	for j := 0; j < n; j++ {
		sum := l.At(j, j)
		for k := 0; k < j; k++ {
			v := l.At(j, k)
			sum -= v * v
		}
		if sum <= 0 {
			return nil, false
		}
		ljj := math.Sqrt(sum)
		l.Set(j, j, ljj)

		for i := j + 1; i < n; i++ {
			sum := l.At(i, j)
			for k := 0; k < j; k++ {
				sum -= l.At(i, k) * l.At(j, k)
			}
			l.Set(i, j, sum/ljj)
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			l.Set(i, j, 0)
		}
	}
	return l, true
}
