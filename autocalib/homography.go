// Package autocalib implements linear rotational autocalibration: given a
// set of inter-view homographies produced by a purely rotating camera with
// fixed intrinsics, it recovers the calibration matrix K.
package autocalib

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// normalizeHomography scales h so that its determinant magnitude becomes 1,
// preserving the sign of the original determinant: divide by
// sign(det(h)) * |det(h)|^(1/3).
func normalizeHomography(h *mat.Dense) *mat.Dense {
	det := mat.Det(h)
	sign := 1.0
	if det < 0 {
		sign = -1.0
	}
	norm := sign * math.Pow(math.Abs(det), 1.0/3.0)

	out := mat.DenseCopyOf(h)
	out.Scale(1/norm, out)
	return out
}
