package imgproc

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
	"golang.org/x/image/colornames"

	"github.com/DaniruKun/grid-motion/config"
	"github.com/DaniruKun/grid-motion/motion"
)

const (
	fillAlpha     = 0.3
	gaugeSize     = 80
	gaugeMargin   = 20
	legendSize    = 200
	arrowBaseLen  = 20
	gaugeMinShown = 0.05
)

// Renderer draws a motion estimate on top of the color frame it came from.
type Renderer struct {
	ShowMotionVectors    bool
	ShowGridLines        bool
	ColorCodeMotion      bool
	ShowCompass          bool
	ShowOverallDirection bool
	VectorScale          float64

	legend *gocv.Mat
}

// NewRenderer copies the visualization switches from cfg.
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		ShowMotionVectors:    cfg.ShowMotionVectors,
		ShowGridLines:        cfg.ShowGridLines,
		ColorCodeMotion:      cfg.ColorCodeMotion,
		ShowCompass:          cfg.ShowCompass,
		ShowOverallDirection: cfg.ShowOverallDirection,
		VectorScale:          cfg.VectorScale,
	}
}

// Close frees the cached legend.
func (r *Renderer) Close() error {
	if r.legend == nil {
		return nil
	}
	err := r.legend.Close()
	r.legend = nil
	return err
}

// Render returns a new BGR Mat with the regions, the overall gauge and, when
// enabled, the compass legend appended on the right.
func (r *Renderer) Render(frame gocv.Mat, res motion.Result) gocv.Mat {
	vis := frame.Clone()
	r.DrawRegions(&vis, res.Regions)
	if r.ShowOverallDirection {
		DrawGauge(&vis, res.Overall)
	}
	if !r.ShowCompass {
		return vis
	}

	if r.legend == nil {
		legend := MotionLegend()
		r.legend = &legend
	}
	side := gocv.NewMat()
	defer side.Close()
	gocv.Resize(*r.legend, &side, image.Pt(legendSize, vis.Rows()), 0, 0, gocv.InterpolationLinear)

	combined := gocv.NewMat()
	gocv.Hconcat(vis, side, &combined)
	vis.Close()
	return combined
}

// DrawRegions overlays every region of the forest, parents first.
func (r *Renderer) DrawRegions(img *gocv.Mat, forest []motion.Region) {
	if r.ColorCodeMotion {
		levels := regionsByDepth(forest)
		for _, level := range levels {
			overlay := img.Clone()
			for _, reg := range level {
				gocv.Rectangle(&overlay, reg.Rect, MotionColor(reg.MotionAngle, reg.MotionStrength), -1)
			}
			gocv.AddWeighted(*img, 1-fillAlpha, overlay, fillAlpha, 0, img)
			overlay.Close()
		}
	}

	motion.WalkForest(forest, func(reg *motion.Region) bool {
		if r.ShowGridLines {
			gocv.Rectangle(img, reg.Rect, colornames.White, 1)
		}
		if r.ShowMotionVectors && reg.MotionStrength > motion.MinorMotionThreshold {
			center := rectCenter(reg.Rect)
			length := reg.MotionStrength * r.VectorScale * arrowBaseLen
			gocv.ArrowedLine(img, center, vectorEnd(center, reg.MotionAngle, length), colornames.Yellow, 2)
		}
		return true
	})
}

// DrawGauge draws the overall direction dial in the top-right corner.
func DrawGauge(img *gocv.Mat, o motion.Overall) {
	origin := image.Pt(img.Cols()-gaugeSize-gaugeMargin, gaugeMargin)
	center := origin.Add(image.Pt(gaugeSize/2, gaugeSize/2))
	labelColor := color.RGBA{200, 200, 200, 255}

	gocv.Circle(img, center, gaugeSize/2, color.RGBA{100, 100, 100, 255}, 2)
	gocv.PutText(img, "N", image.Pt(center.X-5, origin.Y+10), gocv.FontHersheySimplex, 0.4, labelColor, 1)
	gocv.PutText(img, "E", image.Pt(origin.X+gaugeSize-10, center.Y+3), gocv.FontHersheySimplex, 0.4, labelColor, 1)
	gocv.PutText(img, "S", image.Pt(center.X-5, origin.Y+gaugeSize-5), gocv.FontHersheySimplex, 0.4, labelColor, 1)
	gocv.PutText(img, "W", image.Pt(origin.X+5, center.Y+3), gocv.FontHersheySimplex, 0.4, labelColor, 1)

	if o.Strength <= gaugeMinShown {
		return
	}
	gocv.ArrowedLine(img, center, vectorEnd(center, o.Angle, gaugeArrowLength(o.Strength)), colornames.Lime, 3)
	gocv.PutText(img, fmt.Sprintf("%.0f deg", o.Angle), image.Pt(origin.X, origin.Y+gaugeSize+15),
		gocv.FontHersheySimplex, 0.4, colornames.Lime, 1)
}

// MotionLegend renders a color wheel of the angle-to-hue mapping with compass
// labels. The caller owns the returned Mat.
func MotionLegend() gocv.Mat {
	legend := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), legendSize, legendSize, gocv.MatTypeCV8UC3)
	center := image.Pt(legendSize/2, legendSize/2)
	for angle := 0; angle < 360; angle += 10 {
		end := vectorEnd(center, float64(angle), float64(legendSize/2-20))
		gocv.Line(&legend, center, end, MotionColor(float64(angle), 1), 3)
	}
	gocv.PutText(&legend, "N", image.Pt(center.X-5, 15), gocv.FontHersheySimplex, 0.5, colornames.White, 1)
	gocv.PutText(&legend, "E", image.Pt(legendSize-15, center.Y+5), gocv.FontHersheySimplex, 0.5, colornames.White, 1)
	gocv.PutText(&legend, "S", image.Pt(center.X-5, legendSize-5), gocv.FontHersheySimplex, 0.5, colornames.White, 1)
	gocv.PutText(&legend, "W", image.Pt(5, center.Y+5), gocv.FontHersheySimplex, 0.5, colornames.White, 1)
	return legend
}

// vectorEnd returns the end of a screen-space vector of the given length
// pointing at angle degrees clockwise from up.
func vectorEnd(from image.Point, angle, length float64) image.Point {
	rad := angle * math.Pi / 180
	return image.Pt(
		from.X+int(length*math.Sin(rad)),
		from.Y-int(length*math.Cos(rad)),
	)
}

// gaugeArrowLength scales the dial arrow so that strength 1/3 already reaches
// the rim.
func gaugeArrowLength(strength float64) float64 {
	return float64(gaugeSize/2-10) * math.Min(strength*3, 1)
}

func rectCenter(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

// regionsByDepth groups the forest's regions per depth level.
func regionsByDepth(forest []motion.Region) [][]*motion.Region {
	var levels [][]*motion.Region
	motion.WalkForest(forest, func(reg *motion.Region) bool {
		for len(levels) <= reg.Depth {
			levels = append(levels, nil)
		}
		levels[reg.Depth] = append(levels[reg.Depth], reg)
		return true
	})
	return levels
}
