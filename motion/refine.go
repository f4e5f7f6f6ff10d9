package motion

import "fmt"

// Refine matches every region of the set between prev and cur and subdivides
// regions whose strength exceeds cfg.MotionThreshold until
// cfg.MaxRecursiveDepth is reached. Regions are updated in place.
func Refine(prev, cur *Frame, regions []Region, cfg Config) error {
	if !prev.SameShape(cur) {
		return shapeError(prev, cur)
	}
	for i := range regions {
		if err := refineRegion(prev, cur, &regions[i], cfg); err != nil {
			return err
		}
	}
	return nil
}

func refineRegion(prev, cur *Frame, r *Region, cfg Config) error {
	ref, err := prev.Patch(r.Rect)
	if err != nil {
		return fmt.Errorf("region %v depth %d: %w", r.Rect, r.Depth, err)
	}

	res := MatchBlock(ref, cur, r.Rect, cfg.SearchStepSize)
	r.BestDirection = res.Direction
	r.MotionAngle = res.Direction.Angle()
	r.MotionStrength = res.Score
	r.matched = res.Valid
	r.Children = nil

	if r.MotionStrength <= cfg.MotionThreshold || r.Depth >= cfg.MaxRecursiveDepth {
		return nil
	}
	rects := subdivide(r.Rect, cfg.SubdivisionFactor)
	if len(rects) == 0 {
		return nil
	}
	children := make([]Region, len(rects))
	for i, rc := range rects {
		children[i] = NewRegion(rc, r.Depth+1)
		if err := refineRegion(prev, cur, &children[i], cfg); err != nil {
			return err
		}
	}
	r.Children = children
	return nil
}

func shapeError(prev, cur *Frame) error {
	if prev == nil || cur == nil {
		return fmt.Errorf("missing frame: %w", ErrFrameShapeMismatch)
	}
	return fmt.Errorf("previous %dx%d, current %dx%d: %w",
		prev.Width, prev.Height, cur.Width, cur.Height, ErrFrameShapeMismatch)
}
