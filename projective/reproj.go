package projective

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RMSReprojectionError projects each homogeneous point in pts through p and
// returns the RMS distance to the corresponding measured image point.
func RMSReprojectionError(imgPts []r2.Point, pts []r3.Vector, p *mat.Dense) (float64, error) {
	if len(imgPts) != len(pts) {
		return 0, errors.New("RMSReprojectionError: point sets must have equal length")
	}
	if len(imgPts) == 0 {
		return 0, errors.New("RMSReprojectionError: need at least one point")
	}

	sumSq := 0.0
	for i, pt := range pts {
		x := mat.NewDense(4, 1, []float64{pt.X, pt.Y, pt.Z, 1})
		var proj mat.Dense
		proj.Mul(p, x)
		z := proj.At(2, 0)
		dx := imgPts[i].X - proj.At(0, 0)/z
		dy := imgPts[i].Y - proj.At(1, 0)/z
		sumSq += dx*dx + dy*dy
	}
	return math.Sqrt(sumSq / float64(len(pts))), nil
}
