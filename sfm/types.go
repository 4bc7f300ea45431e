// Package sfm holds the data-model types shared across the calibration,
// view-graph, and refinement packages: view pairs, matches, calibration
// matrices, and rigid cameras.
package sfm

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// ViewPair is an unordered pair of view indices, used to key homographies.
// Callers are responsible for a canonical ordering if they need one; the
// core treats (i, j) and (j, i) as distinct map keys unless normalized.
type ViewPair struct {
	I, J int
}

// DirectedPair is an ordered pair of view indices (From, To), used to key
// relative rotations, confidences, and matches.
type DirectedPair struct {
	From, To int
}

// Match is a single correspondence between a keypoint in the "from" view
// and a keypoint in the "to" view, as produced by an external matcher.
type Match struct {
	QueryIdx int
	TrainIdx int
	Distance float64
}

// Keypoint is a single subpixel feature location in a view.
type Keypoint = r2.Point

// CalibrationMatrix wraps a 3x3 upper-triangular intrinsics matrix with
// K(2,2) = 1, exposing the named accessors the rest of the core uses.
type CalibrationMatrix struct {
	m *mat.Dense
}

// NewCalibrationMatrix wraps m, which must be 3x3, as a CalibrationMatrix.
// It does not copy or validate triangularity; callers construct it from
// trusted sources (autocalib, RQ factorization).
func NewCalibrationMatrix(m *mat.Dense) CalibrationMatrix {
	return CalibrationMatrix{m: m}
}

// Mat returns the underlying 3x3 dense matrix.
func (k CalibrationMatrix) Mat() *mat.Dense { return k.m }

func (k CalibrationMatrix) FX() float64   { return k.m.At(0, 0) }
func (k CalibrationMatrix) Skew() float64 { return k.m.At(0, 1) }
func (k CalibrationMatrix) PPX() float64  { return k.m.At(0, 2) }
func (k CalibrationMatrix) FY() float64   { return k.m.At(1, 1) }
func (k CalibrationMatrix) PPY() float64  { return k.m.At(1, 2) }

// SetParams writes the five named intrinsics into the wrapped matrix,
// leaving the lower triangle and K(2,2) = 1 alone.
func (k CalibrationMatrix) SetParams(fx, skew, ppx, fy, ppy float64) {
	k.m.Set(0, 0, fx)
	k.m.Set(0, 1, skew)
	k.m.Set(0, 2, ppx)
	k.m.Set(1, 1, fy)
	k.m.Set(1, 2, ppy)
}

// RigidCamera is a decomposed camera (K, R, T): K the calibration matrix, R
// a 3x3 rotation (det +1, orthonormal), T the world origin in camera
// coordinates.
type RigidCamera struct {
	K CalibrationMatrix
	R *mat.Dense
	T r3.Vector
}

// RefineMask is a bitset over the five intrinsic parameters, selecting
// which ones the rotation-only residual's Jacobian treats as refinable.
// Rotation parameters are always refined regardless of this mask.
type RefineMask uint8

const (
	RefineFX RefineMask = 1 << iota
	RefineSkew
	RefinePPX
	RefineFY
	RefinePPY

	RefineAll RefineMask = RefineFX | RefineSkew | RefinePPX | RefineFY | RefinePPY
)

// Has reports whether bit is set in m.
func (m RefineMask) Has(bit RefineMask) bool { return m&bit != 0 }
