package matx

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EigenResult holds the (possibly complex) eigenvalues and right
// eigenvectors of a general, non-symmetric square matrix. ValuesReal[i] /
// ValuesImag[i] is the i-th eigenvalue; VectorsReal.ColView(i) /
// VectorsImag.ColView(i) is its corresponding eigenvector.
type EigenResult struct {
	ValuesReal  []float64
	ValuesImag  []float64
	VectorsReal *mat.Dense
	VectorsImag *mat.Dense
}

// EigenDecompose computes the eigenvalues and right eigenvectors of m,
// which need not be symmetric. It is a thin wrapper over gonum's mat.Eigen;
// dense linear algebra of this kind is treated as an external collaborator
// that the core only consumes.
func EigenDecompose(m *mat.Dense) (EigenResult, error) {
	r, c := m.Dims()
	if r != c {
		return EigenResult{}, errors.Errorf("EigenDecompose: matrix must be square, got %dx%d", r, c)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(m, mat.EigenRight); !ok {
		return EigenResult{}, errors.New("EigenDecompose: eigen factorization did not converge")
	}

	values := eig.Values(nil)
	var cvecs mat.CDense
	eig.VectorsTo(&cvecs)

	valsRe := make([]float64, r)
	valsIm := make([]float64, r)
	for i, v := range values {
		valsRe[i] = real(v)
		valsIm[i] = imag(v)
	}

	vecsRe := mat.NewDense(r, r, nil)
	vecsIm := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			cv := cvecs.At(i, j)
			vecsRe.Set(i, j, real(cv))
			vecsIm.Set(i, j, imag(cv))
		}
	}

	return EigenResult{
		ValuesReal:  valsRe,
		ValuesImag:  valsIm,
		VectorsReal: vecsRe,
		VectorsImag: vecsIm,
	}, nil
}
