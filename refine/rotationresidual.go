package refine

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
	"github.com/yugokatsuki/autocalib/sfm"
)

var refineBits = [5]sfm.RefineMask{
	sfm.RefineFX, sfm.RefineSkew, sfm.RefinePPX, sfm.RefineFY, sfm.RefinePPY,
}

const finiteDiffStep = 1e-4

// RotationOnlyResidual is the single-camera, purely-rotating reprojection
// residual: K plus a per-view rotation, with the reference view's rotation
// fixed to identity and omitted from the parameter vector. Parameter
// layout: (fx, skew, ppx, fy, ppy, rvec_1.x, rvec_1.y, rvec_1.z, ...).
type RotationOnlyResidual struct {
	features map[int][]sfm.Keypoint
	matches  map[sfm.DirectedPair][]sfm.Match
	// pairOrder fixes the iteration order over matches once, at
	// construction time, so that repeated Eval calls (the central-difference
	// Jacobian evaluates it twice per column) produce residual vectors whose
	// entries line up element-wise. Ranging over the matches map directly
	// would not give that guarantee: Go deliberately randomizes map
	// iteration order per range statement.
	pairOrder []sfm.DirectedPair
	mask      sfm.RefineMask

	refIdx int
	slot   map[int]int // view id -> compact rotation slot, absent for refIdx
	dim    int
}

// NewRotationOnlyResidual builds a residual over features and matches.
// viewOrder[0] is treated as the reference view (rotation fixed to
// identity); viewOrder[1:] are assigned compact rotation slots in order.
func NewRotationOnlyResidual(
	features map[int][]sfm.Keypoint,
	matches map[sfm.DirectedPair][]sfm.Match,
	mask sfm.RefineMask,
	viewOrder []int,
) *RotationOnlyResidual {
	slot := make(map[int]int, len(viewOrder)-1)
	for i, v := range viewOrder[1:] {
		slot[v] = i
	}

	pairOrder := make([]sfm.DirectedPair, 0, len(matches))
	for pair := range matches {
		pairOrder = append(pairOrder, pair)
	}
	sort.Slice(pairOrder, func(i, j int) bool {
		if pairOrder[i].From != pairOrder[j].From {
			return pairOrder[i].From < pairOrder[j].From
		}
		return pairOrder[i].To < pairOrder[j].To
	})

	dim := 0
	for _, ms := range matches {
		dim += 2 * len(ms)
	}

	return &RotationOnlyResidual{
		features:  features,
		matches:   matches,
		pairOrder: pairOrder,
		mask:      mask,
		refIdx:    viewOrder[0],
		slot:      slot,
		dim:       dim,
	}
}

// PackInitialArg builds the initial argument vector from K and an absolute
// rotation for every non-reference view (already rotated through
// Rref^-1, so the reference view's own rotation is identity).
func (r *RotationOnlyResidual) PackInitialArg(k sfm.CalibrationMatrix, viewOrder []int, rots map[int]*mat.Dense) []float64 {
	arg := make([]float64, 5+3*(len(viewOrder)-1))
	arg[0], arg[1], arg[2], arg[3], arg[4] = k.FX(), k.Skew(), k.PPX(), k.FY(), k.PPY()
	for i, v := range viewOrder[1:] {
		rvec := RodriguesFromMat(rots[v])
		arg[5+3*i] = rvec[0]
		arg[5+3*i+1] = rvec[1]
		arg[5+3*i+2] = rvec[2]
	}
	return arg
}

// UnpackK reads the calibration matrix out of arg into k.
func (r *RotationOnlyResidual) UnpackK(arg []float64, k sfm.CalibrationMatrix) {
	k.SetParams(arg[0], arg[1], arg[2], arg[3], arg[4])
}

// UnpackRotation reads the rotation of view v (identity if v is the
// reference view) out of arg.
func (r *RotationOnlyResidual) UnpackRotation(arg []float64, v int) *mat.Dense {
	return r.rotationFor(v, arg)
}

func (r *RotationOnlyResidual) Dimension() int { return r.dim }

func (r *RotationOnlyResidual) rotationFor(view int, arg []float64) *mat.Dense {
	if view == r.refIdx {
		return identity3()
	}
	i := r.slot[view]
	return RodriguesToMat([3]float64{arg[5+3*i], arg[5+3*i+1], arg[5+3*i+2]})
}

func (r *RotationOnlyResidual) Eval(arg []float64) []float64 {
	k := mat.NewDense(3, 3, nil)
	k.Set(0, 0, arg[0])
	k.Set(0, 1, arg[1])
	k.Set(0, 2, arg[2])
	k.Set(1, 1, arg[3])
	k.Set(1, 2, arg[4])
	k.Set(2, 2, 1)
	var kInv mat.Dense
	if err := kInv.Inverse(k); err != nil {
		return make([]float64, r.dim)
	}

	out := make([]float64, r.dim)
	pos := 0
	for _, pair := range r.pairOrder {
		ms := r.matches[pair]
		rFrom := r.rotationFor(pair.From, arg)
		rTo := r.rotationFor(pair.To, arg)

		var m, tmp mat.Dense
		tmp.Mul(k, rFrom)
		tmp.Mul(&tmp, matx.Transpose(rTo))
		m.Mul(&tmp, &kInv)

		kpsFrom := r.features[pair.From]
		kpsTo := r.features[pair.To]
		for _, match := range ms {
			p1 := kpsFrom[match.QueryIdx]
			p2 := kpsTo[match.TrainIdx]

			x := m.At(0, 0)*p2.X + m.At(0, 1)*p2.Y + m.At(0, 2)
			y := m.At(1, 0)*p2.X + m.At(1, 1)*p2.Y + m.At(1, 2)
			z := m.At(2, 0)*p2.X + m.At(2, 1)*p2.Y + m.At(2, 2)

			out[2*pos] = p1.X - x/z
			out[2*pos+1] = p1.Y - y/z
			pos++
		}
	}
	return out
}

// Jacobian computes central finite differences with step 1e-4, but only
// over refinable columns: rotation parameters (index >= 5) are always
// refined, intrinsic columns 0..4 are gated by the refinement mask.
func (r *RotationOnlyResidual) Jacobian(arg []float64) *mat.Dense {
	n := len(arg)
	jac := mat.NewDense(r.dim, n, nil)

	for i := 0; i < n; i++ {
		if i < 5 && !r.mask.Has(refineBits[i]) {
			continue
		}

		orig := arg[i]
		arg[i] = orig + finiteDiffStep
		plus := r.Eval(arg)
		arg[i] = orig - finiteDiffStep
		minus := r.Eval(arg)
		arg[i] = orig

		for j := 0; j < r.dim; j++ {
			jac.Set(j, i, (plus[j]-minus[j])/(2*finiteDiffStep))
		}
	}
	return jac
}
