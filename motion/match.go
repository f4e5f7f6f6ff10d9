package motion

import (
	"image"
	"math"
)

// varianceEpsilon bounds the sum of squared deviations below which a patch is
// treated as flat. A flat patch carries no structure to correlate with.
const varianceEpsilon = 1e-9

// MatchResult is the outcome of matching one region against the 8 directions.
type MatchResult struct {
	Direction Direction
	Score     float64
	// Valid is false when no candidate fit inside the frame. Direction is
	// then North and Score is -1; this is not a "no motion" result.
	Valid bool
}

// noMatch is the sentinel returned when no candidate was scored.
var noMatch = MatchResult{Direction: North, Score: -1}

// MatchBlock scores ref against the current frame at rect shifted by each of
// the 8 directions times step, and returns the best scoring direction.
// Candidates leaving the frame or scoring NaN are skipped. Ties keep the
// earliest direction in table order.
func MatchBlock(ref, cur *Frame, rect image.Rectangle, step int) MatchResult {
	if ref == nil || cur == nil || rect.Empty() || ref.Width != rect.Dx() || ref.Height != rect.Dy() {
		return noMatch
	}
	n := len(ref.Pix)
	refNorm := make([]float64, n)
	normalizeMinMax(ref.Pix, refNorm)
	refDev, refSS := deviations(refNorm)

	cand := make([]float32, n)
	candNorm := make([]float64, n)
	bounds := cur.Bounds()

	best := noMatch
	for d := North; d < NumDirections; d++ {
		shifted := rect.Add(d.Offset().Mul(step))
		if !shifted.In(bounds) {
			continue
		}
		copyRect(cur, shifted, cand)
		normalizeMinMax(cand, candNorm)
		score := correlate(refDev, refSS, candNorm)
		if math.IsNaN(score) {
			continue
		}
		if !best.Valid || score > best.Score {
			best = MatchResult{Direction: d, Score: score, Valid: true}
		}
	}
	return best
}

// normalizeMinMax rescales src linearly into [0,1]. A constant patch maps to
// all zeros.
func normalizeMinMax(src []float32, dst []float64) {
	if len(src) == 0 {
		return
	}
	lo, hi := src[0], src[0]
	for _, v := range src[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := float64(hi) - float64(lo)
	if span <= 0 {
		for i := range dst {
			dst[i] = 0
		}
		return
	}
	for i, v := range src {
		dst[i] = (float64(v) - float64(lo)) / span
	}
}

// deviations subtracts the mean in place and returns the slice and its sum of
// squares.
func deviations(v []float64) ([]float64, float64) {
	var sum float64
	for _, x := range v {
		sum += x
	}
	mean := sum / float64(len(v))
	var ss float64
	for i := range v {
		v[i] -= mean
		ss += v[i] * v[i]
	}
	return v, ss
}

// correlate returns the zero-mean normalized cross-correlation between the
// centred reference and cand. Flat patches score 0.
func correlate(refDev []float64, refSS float64, cand []float64) float64 {
	if refSS <= varianceEpsilon {
		return 0
	}
	var sum float64
	for _, x := range cand {
		sum += x
	}
	mean := sum / float64(len(cand))
	var num, candSS float64
	for i, x := range cand {
		d := x - mean
		num += refDev[i] * d
		candSS += d * d
	}
	if candSS <= varianceEpsilon {
		return 0
	}
	score := num / math.Sqrt(refSS*candSS)
	// Rounding can push a perfect match marginally past 1.
	return math.Max(-1, math.Min(1, score))
}

func copyRect(f *Frame, r image.Rectangle, dst []float32) {
	w := r.Dx()
	for y := 0; y < r.Dy(); y++ {
		off := (r.Min.Y+y)*f.Width + r.Min.X
		copy(dst[y*w:(y+1)*w], f.Pix[off:off+w])
	}
}
