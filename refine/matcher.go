package refine

import (
	"math"

	"github.com/yugokatsuki/autocalib/sfm"
)

// Descriptor is a single feature descriptor vector; the core treats it as
// an opaque fixed-length numeric vector to compare by Euclidean distance.
type Descriptor []float64

func sqDist(a, b Descriptor) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// neighbor is a single k-NN candidate: the index of the matched descriptor
// and its (squared) distance to the query.
type neighbor struct {
	idx  int
	dist float64
}

// knn2 returns, for each descriptor in from, the indices and distances of
// its two nearest neighbors in to (by ascending distance). Descriptor sets
// with fewer than two entries in to yield no second candidate for that
// query (idx == -1).
func knn2(from, to []Descriptor) [][2]neighbor {
	out := make([][2]neighbor, len(from))

	for i, q := range from {
		best0, best1 := -1, -1
		d0, d1 := math.MaxFloat64, math.MaxFloat64
		for j, c := range to {
			d := sqDist(q, c)
			if d < d0 {
				d1, best1 = d0, best0
				d0, best0 = d, j
			} else if d < d1 {
				d1, best1 = d, j
			}
		}
		out[i] = [2]neighbor{{best0, d0}, {best1, d1}}
	}
	return out
}

// TwoWayRatioMatch runs the two-way ratio-test matcher: k-NN (k=2) from a
// to b, keeping (query, train) pairs passing Lowe's ratio test with
// threshold conf; the same test run b to a; a pair from the reverse pass
// is emitted only if its reciprocal pair also passed the forward pass.
func TwoWayRatioMatch(a, b []Descriptor, conf float64) []sfm.Match {
	type pair struct{ q, t int }

	forward := knn2(a, b)
	forwardKept := make(map[pair]bool)
	for q, nn := range forward {
		if nn[1].idx < 0 {
			continue
		}
		if nn[0].dist < (1-conf)*(1-conf)*nn[1].dist {
			forwardKept[pair{q, nn[0].idx}] = true
		}
	}

	backward := knn2(b, a)
	var out []sfm.Match
	for q, nn := range backward {
		if nn[1].idx < 0 {
			continue
		}
		if nn[0].dist < (1-conf)*(1-conf)*nn[1].dist && forwardKept[pair{nn[0].idx, q}] {
			out = append(out, sfm.Match{QueryIdx: nn[0].idx, TrainIdx: q, Distance: math.Sqrt(nn[0].dist)})
		}
	}
	return out
}

// IntersectMatches finds three-way correspondences for trifocal use: given
// left1<->right1 matches, left2<->right2 matches, and left1<->left2
// matches, it returns pairs (index into matchesLR1, index into
// matchesLR2) for every left1<->left2 pair whose endpoints both appear as
// query indices of the respective LR match lists.
func IntersectMatches(matchesLR1, matchesLR2, matchesLL []sfm.Match) [][2]int {
	l1ToLR1 := make(map[int]int, len(matchesLR1))
	for i, m := range matchesLR1 {
		l1ToLR1[m.QueryIdx] = i
	}
	l2ToLR2 := make(map[int]int, len(matchesLR2))
	for i, m := range matchesLR2 {
		l2ToLR2[m.QueryIdx] = i
	}

	var out [][2]int
	for _, m := range matchesLL {
		i1, ok1 := l1ToLR1[m.QueryIdx]
		i2, ok2 := l2ToLR2[m.TrainIdx]
		if ok1 && ok2 {
			out = append(out, [2]int{i1, i2})
		}
	}
	return out
}
