package refine

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"github.com/yugokatsuki/autocalib/matx"
	"github.com/yugokatsuki/autocalib/sfm"
)

// StereoResidual is the stereo-rig residual left unimplemented upstream
// (the residual body stopped after extracting the rig rotation, with a
// "TODO" where the epipolar error belonged). Resolving that open question,
// this implements the symmetric epipolar distance.
//
// Parameter layout: K[5] (fx, skew, ppx, fy, ppy), rig rvec[3], rig T[3],
// then per non-reference frame i a (rvec[3], T[3]) left-camera motion
// relative to the reference frame, packed at 11+6*(i-1) and
// 11+6*(i-1)+3 respectively.
//
// Two kinds of correspondence feed the residual: stereo matches between a
// frame's left and right view, constrained by the fixed rig pose; and
// left-to-left matches between the reference frame and frame i,
// constrained by that frame's motion.
type StereoResidual struct {
	features map[int][]sfm.Keypoint
	matches  map[sfm.DirectedPair][]sfm.Match

	leftViews []int       // leftViews[0] is the reference frame
	rightOf   map[int]int // left view id -> right view id
	motionIdx map[int]int // left view id -> motion slot (absent for the reference frame)
	dim       int
}

// NewStereoResidual builds a stereo-rig residual over the given stereo
// (left<->right) and cross-frame (leftViews[0]<->leftViews[i]) matches.
func NewStereoResidual(
	features map[int][]sfm.Keypoint,
	matches map[sfm.DirectedPair][]sfm.Match,
	leftViews []int,
	rightOf map[int]int,
) *StereoResidual {
	motionIdx := make(map[int]int, len(leftViews)-1)
	for i, v := range leftViews[1:] {
		motionIdx[v] = i
	}

	dim := 0
	for pair, ms := range matches {
		if isRelevantPair(pair, leftViews, rightOf, motionIdx) {
			dim += len(ms)
		}
	}

	return &StereoResidual{
		features:  features,
		matches:   matches,
		leftViews: leftViews,
		rightOf:   rightOf,
		motionIdx: motionIdx,
		dim:       dim,
	}
}

// isRelevantPair reports whether pair is a stereo (left<->right) match or a
// cross-frame match between the reference left view and another frame's
// left view with an assigned motion slot — the two kinds of correspondence
// Eval actually consumes.
func isRelevantPair(pair sfm.DirectedPair, leftViews []int, rightOf map[int]int, motionIdx map[int]int) bool {
	if rv, ok := rightOf[pair.From]; ok && rv == pair.To {
		return true
	}
	if pair.From != leftViews[0] {
		return false
	}
	_, ok := motionIdx[pair.To]
	return ok
}

func (s *StereoResidual) Dimension() int { return s.dim }

func kFromArg(arg []float64) *mat.Dense {
	k := mat.NewDense(3, 3, nil)
	k.Set(0, 0, arg[0])
	k.Set(0, 1, arg[1])
	k.Set(0, 2, arg[2])
	k.Set(1, 1, arg[3])
	k.Set(1, 2, arg[4])
	k.Set(2, 2, 1)
	return k
}

// fundamentalFor builds F = K^-T [T]x R K^-1 for the pose (R, T) taking the
// reference camera to the other camera in the pair.
func fundamentalFor(kInv *mat.Dense, r *mat.Dense, t [3]float64) *mat.Dense {
	cross := matx.CrossProductMat(r3.Vector{X: t[0], Y: t[1], Z: t[2]})
	var e mat.Dense
	e.Mul(cross, r)

	kInvT := matx.Transpose(kInv)
	var tmp, f mat.Dense
	tmp.Mul(kInvT, &e)
	f.Mul(&tmp, kInv)
	return &f
}

func symmetricEpipolarDistance(f *mat.Dense, p1, p2 sfm.Keypoint) float64 {
	l2x := f.At(0, 0)*p1.X + f.At(0, 1)*p1.Y + f.At(0, 2)
	l2y := f.At(1, 0)*p1.X + f.At(1, 1)*p1.Y + f.At(1, 2)
	l2z := f.At(2, 0)*p1.X + f.At(2, 1)*p1.Y + f.At(2, 2)

	l1x := f.At(0, 0)*p2.X + f.At(1, 0)*p2.Y + f.At(2, 0)
	l1y := f.At(0, 1)*p2.X + f.At(1, 1)*p2.Y + f.At(2, 1)

	num := p2.X*l2x + p2.Y*l2y + l2z
	invNorm2 := 1 / (l2x*l2x + l2y*l2y)
	invNorm1 := 1 / (l1x*l1x + l1y*l1y)
	return num * math.Sqrt(invNorm1+invNorm2)
}

func (s *StereoResidual) Eval(arg []float64) []float64 {
	k := kFromArg(arg)
	var kInv mat.Dense
	if err := kInv.Inverse(k); err != nil {
		return make([]float64, s.dim)
	}

	rigR := RodriguesToMat([3]float64{arg[5], arg[6], arg[7]})
	rigT := [3]float64{arg[8], arg[9], arg[10]}
	rigF := fundamentalFor(&kInv, rigR, rigT)

	out := make([]float64, s.dim)
	pos := 0

	for _, lv := range s.leftViews {
		if rv, ok := s.rightOf[lv]; ok {
			ms := s.matches[sfm.DirectedPair{From: lv, To: rv}]
			for _, match := range ms {
				p1 := s.features[lv][match.QueryIdx]
				p2 := s.features[rv][match.TrainIdx]
				out[pos] = symmetricEpipolarDistance(rigF, p1, p2)
				pos++
			}
		}
	}

	ref := s.leftViews[0]
	for _, lv := range s.leftViews[1:] {
		i := s.motionIdx[lv]
		base := 11 + 6*i
		r := RodriguesToMat([3]float64{arg[base], arg[base+1], arg[base+2]})
		t := [3]float64{arg[base+3], arg[base+4], arg[base+5]}
		f := fundamentalFor(&kInv, r, t)

		ms := s.matches[sfm.DirectedPair{From: ref, To: lv}]
		for _, match := range ms {
			p1 := s.features[ref][match.QueryIdx]
			p2 := s.features[lv][match.TrainIdx]
			out[pos] = symmetricEpipolarDistance(f, p1, p2)
			pos++
		}
	}
	return out
}

// Jacobian is unconditionally central-difference over every parameter: the
// mask that gates the rotation-only residual's intrinsics columns does not
// apply here.
func (s *StereoResidual) Jacobian(arg []float64) *mat.Dense {
	n := len(arg)
	jac := mat.NewDense(s.dim, n, nil)

	for i := 0; i < n; i++ {
		orig := arg[i]
		arg[i] = orig + finiteDiffStep
		plus := s.Eval(arg)
		arg[i] = orig - finiteDiffStep
		minus := s.Eval(arg)
		arg[i] = orig

		for j := 0; j < s.dim; j++ {
			jac.Set(j, i, (plus[j]-minus[j])/(2*finiteDiffStep))
		}
	}
	return jac
}
