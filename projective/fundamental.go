package projective

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
)

// SecondCameraFromFundamental recovers a projective camera matrix P2 for
// the second view given the fundamental matrix f (with the first camera
// canonically [I|0]): the epipole e' is the right null vector of f^T, and
// P2 = [ [e']x * f / ||[e']x * f|| | e' ].
func SecondCameraFromFundamental(f *mat.Dense) *mat.Dense {
	ft := transposeDense(f)
	epipole := leastSingularVector(ft)
	e := [3]float64{epipole[0], epipole[1], epipole[2]}

	cross := matx.CrossProductMat(r3.Vector{X: e[0], Y: e[1], Z: e[2]})
	var left mat.Dense
	left.Mul(cross, f)
	norm := mat.Norm(&left, 2)
	left.Scale(1/norm, &left)

	p2 := mat.NewDense(3, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p2.Set(i, j, left.At(i, j))
		}
		p2.Set(i, 3, e[i])
	}
	return p2
}
