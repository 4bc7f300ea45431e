package matx

import "gonum.org/v1/gonum/mat"

// Transpose returns a new matrix holding the transpose of m.
func Transpose(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(c, r, nil)
	out.Copy(m.T())
	return out
}
