package matx

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// CrossProductMat returns the skew-symmetric matrix [v]x such that
// [v]x * w equals the cross product v x w for any w.
func CrossProductMat(v r3.Vector) *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	m.Set(0, 1, -v.Z)
	m.Set(0, 2, v.Y)
	m.Set(1, 0, v.Z)
	m.Set(1, 2, -v.X)
	m.Set(2, 0, -v.Y)
	m.Set(2, 1, v.X)
	return m
}
