package projective

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// NormalizationMat computes the isotropic normalization transform for pts:
// translate so the centroid is at the origin, then scale so the mean
// distance from the origin is sqrt(2). Returns the 3x3 affine transform and
// the transformed points. A single point gets scale 1 (no mean distance to
// normalize against).
func NormalizationMat(pts []r2.Point) (*mat.Dense, []r2.Point) {
	n := len(pts)
	mu := r2.Point{}
	for _, p := range pts {
		mu.X += p.X
		mu.Y += p.Y
	}
	mu = mu.Mul(1 / float64(n))

	scale := 1.0
	if n > 1 {
		d := 0.0
		for _, p := range pts {
			dx, dy := p.X-mu.X, p.Y-mu.Y
			d += math.Sqrt(dx*dx+dy*dy) / float64(n)
		}
		if d > 0 {
			scale = math.Sqrt2 / d
		}
	}

	t := mat.NewDense(3, 3, []float64{
		scale, 0, -scale * mu.X,
		0, scale, -scale * mu.Y,
		0, 0, 1,
	})

	out := make([]r2.Point, n)
	for i, p := range pts {
		out[i] = r2.Point{X: scale * (p.X - mu.X), Y: scale * (p.Y - mu.Y)}
	}
	return t, out
}
