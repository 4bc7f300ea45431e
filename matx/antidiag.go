// Package matx provides the small dense-matrix building blocks the rest of
// autocalib is layered on: the antidiagonal permutation, the Cholesky-like
// factorizations used to pull K out of a conic, a cross-product matrix
// helper, and a thin wrapper around gonum's general eigen-decomposition.
package matx

import "gonum.org/v1/gonum/mat"

// numeric bounds the scalar types AntidiagOf can produce a grid for. Only
// Antidiag (the float64 case used everywhere else in this module) needs a
// *mat.Dense; AntidiagOf exists because the antidiagonal permutation is
// equally meaningful over any type with an additive and multiplicative
// identity, and callers outside this module's float64 path (tests, mostly)
// may want that directly.
type numeric interface {
	~float64 | ~float32 | ~int | ~int32 | ~int64
}

// AntidiagOf returns the n x n grid with the multiplicative identity of T on
// the antidiagonal (row i, column n-1-i) and the zero value everywhere else.
func AntidiagOf[T numeric](n int) [][]T {
	grid := make([][]T, n)
	for i := range grid {
		grid[i] = make([]T, n)
		grid[i][n-1-i] = T(1)
	}
	return grid
}

// Antidiag returns the n x n matrix J with ones on the antidiagonal and
// zeros elsewhere. J is its own inverse: J*J = I.
func Antidiag(n int) *mat.Dense {
	grid := AntidiagOf[float64](n)
	data := make([]float64, 0, n*n)
	for _, row := range grid {
		data = append(data, row...)
	}
	return mat.NewDense(n, n, data)
}
