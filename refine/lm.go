// Package refine implements nonlinear bundle-adjustment refinement of
// (K, {Rᵢ}) and, optionally, a stereo rig pose, by Levenberg-Marquardt
// minimization of reprojection/epipolar residuals with a selective
// intrinsics refinement mask, plus the two-way ratio-test feature matcher
// that produces the matches the refiner consumes.
package refine

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Residual is a small functor interface for the Levenberg-Marquardt
// driver: it evaluates a vector-valued error at arg and can provide its
// Jacobian there.
type Residual interface {
	Dimension() int
	Eval(arg []float64) []float64
	Jacobian(arg []float64) *mat.Dense
}

// LMOptions controls the Levenberg-Marquardt driver's termination and step
// policy.
type LMOptions struct {
	MaxIterations int
	InitialLambda float64
	Tolerance     float64
}

// DefaultLMOptions returns the driver's default termination policy.
func DefaultLMOptions() LMOptions {
	return LMOptions{MaxIterations: 100, InitialLambda: 1e-3, Tolerance: 1e-10}
}

// MinimizeLevMarq refines arg in place to minimize the sum of squares of
// f's residual, damping by lambda and backing off on non-improving steps.
// It returns the final RMS residual; there is no hard failure on
// non-convergence, the caller inspects the returned RMS.
func MinimizeLevMarq(f Residual, arg []float64, opts LMOptions) float64 {
	n := len(arg)
	lambda := opts.InitialLambda

	errVals := f.Eval(arg)
	cost := sumSquares(errVals)

	for iter := 0; iter < opts.MaxIterations; iter++ {
		jac := f.Jacobian(arg)
		errVec := mat.NewVecDense(len(errVals), errVals)

		var jt mat.Dense
		jt.CloneFrom(jac.T())

		var jtjDense mat.Dense
		jtjDense.Mul(&jt, jac)

		var jte mat.VecDense
		jte.MulVec(&jt, errVec)
		jte.ScaleVec(-1, &jte)

		jtj := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				v := jtjDense.At(i, j)
				if i == j {
					v *= 1 + lambda
				}
				jtj.SetSym(i, j, v)
			}
		}

		var chol mat.Cholesky
		var delta mat.VecDense
		if ok := chol.Factorize(jtj); !ok {
			lambda *= 10
			continue
		}
		if err := chol.SolveVecTo(&delta, &jte); err != nil {
			lambda *= 10
			continue
		}

		candidate := make([]float64, n)
		for i := range arg {
			candidate[i] = arg[i] + delta.AtVec(i)
		}
		candidateErr := f.Eval(candidate)
		candidateCost := sumSquares(candidateErr)

		if candidateCost < cost {
			improved := cost - candidateCost
			copy(arg, candidate)
			errVals = candidateErr
			cost = candidateCost
			lambda = math.Max(lambda/10, 1e-12)
			if improved < opts.Tolerance*math.Max(cost, 1e-30) {
				break
			}
		} else {
			lambda *= 10
		}
	}

	return math.Sqrt(cost / float64(len(errVals)))
}

func sumSquares(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}
