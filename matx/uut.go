package matx

import "gonum.org/v1/gonum/mat"

// DecomposeUUt recovers the upper-triangular factor U of a symmetric
// positive-definite M = U*U^T (the DIAC form) as J*Cholesky(J*M*J)*J, where
// J is the antidiagonal permutation: flipping M through J turns the U*U^T
// form into an L*L^T form DecomposeCholesky can factor directly, then
// flipping the factor back recovers U. ok is false if the flipped matrix
// is not positive definite.
func DecomposeUUt(m *mat.Dense) (u *mat.Dense, ok bool) {
	n, c := m.Dims()
	if n != c {
		return nil, false
	}
	j := Antidiag(n)

	var flipped, tmp mat.Dense
	tmp.Mul(j, m)
	flipped.Mul(&tmp, j)

	lFlipped, ok := DecomposeCholesky(&flipped)
	if !ok {
		return nil, false
	}

	var uOut mat.Dense
	tmp.Mul(j, lFlipped)
	uOut.Mul(&tmp, j)
	return &uOut, true
}
