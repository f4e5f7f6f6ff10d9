package motion

import "math"

// Overall is the aggregated motion of a frame pair.
type Overall struct {
	Angle    float64 // degrees in [0, 360), clockwise from North
	Strength float64 // in [0, 1]
}

// Direction returns the compass direction closest to the overall angle.
func (o Overall) Direction() Direction { return NearestDirection(o.Angle) }

// Aggregate reduces a region forest to one weighted direction and strength.
// Each counted region with strength above MinorMotionThreshold adds
// area*strength along its angle. With no such region the result is the zero
// Overall.
func Aggregate(forest []Region, policy AggregationPolicy) Overall {
	var acc accumulator
	WalkForest(forest, func(r *Region) bool {
		if policy == AggregateLeavesOnly && !r.IsLeaf() {
			return true
		}
		acc.add(r)
		return true
	})
	return acc.result()
}

type accumulator struct {
	sumX, sumY, weight float64
}

func (a *accumulator) add(r *Region) {
	if r.MotionStrength <= MinorMotionThreshold {
		return
	}
	w := float64(r.Area()) * r.MotionStrength
	rad := r.MotionAngle * math.Pi / 180
	a.sumX += w * math.Sin(rad)
	a.sumY += -w * math.Cos(rad)
	a.weight += w
}

func (a *accumulator) result() Overall {
	if a.weight <= 0 {
		return Overall{}
	}
	angle := normalizeAngle(math.Atan2(a.sumX, -a.sumY) * 180 / math.Pi)
	strength := math.Min(math.Hypot(a.sumX, a.sumY)/a.weight, 1)
	return Overall{Angle: angle, Strength: strength}
}

// normalizeAngle wraps degrees into [0, 360).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
