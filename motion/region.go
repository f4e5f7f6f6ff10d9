package motion

import "image"

// Region is a rectangular area of a frame together with its match result and
// the regions it was subdivided into. Children are owned by value.
type Region struct {
	Rect           image.Rectangle
	Depth          int
	BestDirection  Direction
	MotionAngle    float64 // degrees, clockwise from North
	MotionStrength float64 // correlation score, -1 when unmatched
	Children       []Region

	matched bool
}

// NewRegion returns an unmatched region.
func NewRegion(r image.Rectangle, depth int) Region {
	return Region{
		Rect:           r,
		Depth:          depth,
		BestDirection:  DirectionUnset,
		MotionStrength: -1,
	}
}

// Matched reports whether the block matcher found a valid candidate. A valid
// match may still score -1 when the patches are perfectly anti-correlated.
func (r *Region) Matched() bool { return r.matched }

// IsLeaf reports whether the region has no children.
func (r *Region) IsLeaf() bool { return len(r.Children) == 0 }

// Area is width times height in pixels.
func (r *Region) Area() int { return r.Rect.Dx() * r.Rect.Dy() }

// Walk visits r and its descendants depth-first, parents before children.
// Returning false from fn skips the children of that region.
func (r *Region) Walk(fn func(*Region) bool) {
	if !fn(r) {
		return
	}
	for i := range r.Children {
		r.Children[i].Walk(fn)
	}
}

// WalkForest applies Walk to every root.
func WalkForest(forest []Region, fn func(*Region) bool) {
	for i := range forest {
		forest[i].Walk(fn)
	}
}

// CountRegions returns the number of regions in the forest, roots included.
func CountRegions(forest []Region) int {
	n := 0
	WalkForest(forest, func(*Region) bool {
		n++
		return true
	})
	return n
}

// MaxDepth returns the deepest region depth in the forest, or -1 when empty.
func MaxDepth(forest []Region) int {
	d := -1
	WalkForest(forest, func(r *Region) bool {
		if r.Depth > d {
			d = r.Depth
		}
		return true
	})
	return d
}
