package imgproc

import (
	"fmt"
	"image/color"
	"testing"
)

func TestMotionColor(t *testing.T) {
	var tests = []struct {
		angle    float64
		strength float64
		rgba     color.RGBA
	}{
		{0, 1, color.RGBA{204, 0, 0, 255}},
		{120, 0.5, color.RGBA{0, 204, 0, 255}},
		{240, 0.9, color.RGBA{0, 0, 204, 255}},
		{360 + 120, 1, color.RGBA{0, 204, 0, 255}},
		{-120, 1, color.RGBA{0, 0, 204, 255}},
		{90, 0, color.RGBA{204, 204, 204, 255}},
		{90, -1, color.RGBA{204, 204, 204, 255}},
	}

	for _, tt := range tests {
		testname := fmt.Sprintf("angle %v strength %v -> RGBA %v", tt.angle, tt.strength, tt.rgba)
		t.Run(testname, func(t *testing.T) {
			res := MotionColor(tt.angle, tt.strength)
			if res != tt.rgba {
				t.Errorf("got %+v, want %+v", res, tt.rgba)
			}
		})
	}
}

func TestMotionColorSaturationGrowsWithStrength(t *testing.T) {
	weak := MotionColor(0, 0.1)
	strong := MotionColor(0, 0.4)
	if weak.G <= strong.G {
		t.Errorf("weaker motion should be less saturated: weak %+v strong %+v", weak, strong)
	}
}
