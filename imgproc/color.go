package imgproc

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Brightness of every motion color; only hue and saturation carry information.
const motionColorValue = 0.8

// MotionColor maps a motion angle (degrees) to a hue and its strength to the
// saturation, doubled so moderate correlations are still visible.
// Non-positive strengths render as neutral grey.
func MotionColor(angle, strength float64) color.RGBA {
	sat := math.Max(0, math.Min(strength*2, 1))
	hue := math.Mod(angle, 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsv(hue, sat, motionColorValue).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
