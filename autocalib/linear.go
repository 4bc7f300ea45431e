package autocalib

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
	"github.com/yugokatsuki/autocalib/sfm"
)

// lut5 maps a (r1, r2) pair, 0 <= r1 <= r2 <= 2, to the index of the
// corresponding DIAC entry in the 5-parameter unknown vector
// x = (W00, W01, W02, W11, W12).
var lut5 = [3][3]int{{0, 1, 2}, {-1, 3, 4}, {-1, -1, -1}}

// lut4 maps a (r1, r2) pair to the index of the corresponding IAC entry in
// the no-skew unknown vector x = (Omega00, Omega02, Omega11, Omega12).
var lut4 = [3][3]int{{0, -1, 1}, {-1, 2, 3}, {-1, -1, -1}}

// CalibrateLinear recovers K from a set of inter-view rotational
// homographies by solving for the 5-parameter DIAC. residual receives the
// SVD relative least-squares residual ||A*x-b||/||b||, if non-nil.
func CalibrateLinear(hs map[sfm.ViewPair]*mat.Dense, residual *float64) (sfm.CalibrationMatrix, error) {
	if len(hs) == 0 {
		return sfm.CalibrationMatrix{}, errors.New("Need at least one homography")
	}

	a := mat.NewDense(6*len(hs), 5, nil)
	b := mat.NewDense(6*len(hs), 1, nil)

	row := 0
	for _, hRaw := range hs {
		h := normalizeHomography(hRaw)
		for r1 := 0; r1 < 3; r1++ {
			for r2 := r1; r2 < 3; r2++ {
				a.Set(row, 0, h.At(r1, 0)*h.At(r2, 0))
				a.Set(row, 1, h.At(r1, 0)*h.At(r2, 1)+h.At(r1, 1)*h.At(r2, 0))
				a.Set(row, 2, h.At(r1, 0)*h.At(r2, 2)+h.At(r1, 2)*h.At(r2, 0))
				a.Set(row, 3, h.At(r1, 1)*h.At(r2, 1))
				a.Set(row, 4, h.At(r1, 1)*h.At(r2, 2)+h.At(r1, 2)*h.At(r2, 1))

				if r1 == 2 && r2 == 2 {
					b.Set(row, 0, 1-h.At(r1, 2)*h.At(r2, 2))
				} else {
					idx := lut5[r1][r2]
					a.Set(row, idx, a.At(row, idx)-1)
					b.Set(row, 0, -h.At(r1, 2)*h.At(r2, 2))
				}
				row++
			}
		}
	}

	x, res, err := solveSVDResidual(a, b)
	if err != nil {
		return sfm.CalibrationMatrix{}, err
	}
	if residual != nil {
		*residual = res
	}

	diac := mat.NewDense(3, 3, nil)
	diac.Set(0, 0, x.At(0, 0))
	diac.Set(0, 1, x.At(1, 0))
	diac.Set(1, 0, x.At(1, 0))
	diac.Set(0, 2, x.At(2, 0))
	diac.Set(2, 0, x.At(2, 0))
	diac.Set(1, 1, x.At(3, 0))
	diac.Set(1, 2, x.At(4, 0))
	diac.Set(2, 1, x.At(4, 0))
	diac.Set(2, 2, 1)

	k, ok := matx.DecomposeUUt(diac)
	if !ok {
		return sfm.CalibrationMatrix{}, errors.New("DIAC isn't positive definite")
	}
	return sfm.NewCalibrationMatrix(k), nil
}

// CalibrateLinearNoSkew recovers K under the zero-skew constraint
// (K(0,1) = 0) by solving for the 4-parameter IAC.
func CalibrateLinearNoSkew(hs map[sfm.ViewPair]*mat.Dense, residual *float64) (sfm.CalibrationMatrix, error) {
	if len(hs) == 0 {
		return sfm.CalibrationMatrix{}, errors.New("Need at least one homography")
	}

	a := mat.NewDense(6*len(hs), 4, nil)
	b := mat.NewDense(6*len(hs), 1, nil)

	row := 0
	for _, hRaw := range hs {
		ht := matx.Transpose(normalizeHomography(hRaw))
		for r1 := 0; r1 < 3; r1++ {
			for r2 := r1; r2 < 3; r2++ {
				a.Set(row, 0, ht.At(r1, 0)*ht.At(r2, 0))
				a.Set(row, 1, ht.At(r1, 0)*ht.At(r2, 2)+ht.At(r1, 2)*ht.At(r2, 0))
				a.Set(row, 2, ht.At(r1, 1)*ht.At(r2, 1))
				a.Set(row, 3, ht.At(r1, 1)*ht.At(r2, 2)+ht.At(r1, 2)*ht.At(r2, 1))

				switch {
				case r1 == 2 && r2 == 2:
					b.Set(row, 0, 1-ht.At(r1, 2)*ht.At(r2, 2))
				case r1 == 0 && r2 == 1:
					b.Set(row, 0, -ht.At(r1, 2)*ht.At(r2, 2))
				default:
					idx := lut4[r1][r2]
					a.Set(row, idx, a.At(row, idx)-1)
					b.Set(row, 0, -ht.At(r1, 2)*ht.At(r2, 2))
				}
				row++
			}
		}
	}

	x, res, err := solveSVDResidual(a, b)
	if err != nil {
		return sfm.CalibrationMatrix{}, err
	}
	if residual != nil {
		*residual = res
	}

	iac := mat.NewDense(3, 3, nil)
	iac.Set(0, 0, x.At(0, 0))
	iac.Set(0, 2, x.At(1, 0))
	iac.Set(2, 0, x.At(1, 0))
	iac.Set(1, 1, x.At(2, 0))
	iac.Set(1, 2, x.At(3, 0))
	iac.Set(2, 1, x.At(3, 0))
	iac.Set(2, 2, 1)

	kInvT, ok := matx.DecomposeCholesky(iac)
	if !ok {
		return sfm.CalibrationMatrix{}, errors.New("IAC isn't positive definite")
	}

	var kT mat.Dense
	if err := kT.Inverse(kInvT); err != nil {
		return sfm.CalibrationMatrix{}, errors.Wrap(err, "inverting K^-T")
	}
	kOut := matx.Transpose(&kT)
	kOut.Scale(1/kOut.At(2, 2), kOut)

	return sfm.NewCalibrationMatrix(kOut), nil
}

// solveSVDResidual solves the overdetermined system a*x = b for the
// minimum-norm least-squares x via SVD, and reports the relative residual
// ||a*x-b|| / ||b||.
func solveSVDResidual(a, b *mat.Dense) (*mat.Dense, float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, 0, errors.New("SVD factorization of constraint matrix failed")
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	_, cols := a.Dims()
	var utb mat.Dense
	utb.Mul(u.T(), b)

	xPrime := mat.NewDense(cols, 1, nil)
	for i, s := range values {
		if s > 1e-12 {
			xPrime.Set(i, 0, utb.At(i, 0)/s)
		}
	}

	var x mat.Dense
	x.Mul(&v, xPrime)

	var err mat.Dense
	err.Mul(a, &x)
	err.Sub(&err, b)

	residual := mat.Norm(&err, 2) / mat.Norm(b, 2)
	return &x, residual, nil
}
