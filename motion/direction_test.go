package motion

import (
	"fmt"
	"image"
	"testing"
)

func TestDirectionTable(t *testing.T) {
	var tests = []struct {
		dir    Direction
		offset image.Point
		angle  float64
		name   string
	}{
		{North, image.Pt(0, -1), 0, "N"},
		{NorthEast, image.Pt(1, -1), 45, "NE"},
		{East, image.Pt(1, 0), 90, "E"},
		{SouthEast, image.Pt(1, 1), 135, "SE"},
		{South, image.Pt(0, 1), 180, "S"},
		{SouthWest, image.Pt(-1, 1), 225, "SW"},
		{West, image.Pt(-1, 0), 270, "W"},
		{NorthWest, image.Pt(-1, -1), 315, "NW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dir.Offset(); got != tt.offset {
				t.Errorf("offset: got %v, want %v", got, tt.offset)
			}
			if got := tt.dir.Angle(); got != tt.angle {
				t.Errorf("angle: got %v, want %v", got, tt.angle)
			}
			if got := tt.dir.String(); got != tt.name {
				t.Errorf("name: got %q, want %q", got, tt.name)
			}
		})
	}
}

func TestDirectionUnset(t *testing.T) {
	if DirectionUnset.Valid() {
		t.Fatal("unset direction reported valid")
	}
	if DirectionUnset.Offset() != (image.Point{}) {
		t.Error("unset direction should have zero offset")
	}
	if DirectionUnset.String() != "unset" {
		t.Errorf("got %q", DirectionUnset.String())
	}
}

func TestNearestDirection(t *testing.T) {
	var tests = []struct {
		angle float64
		want  Direction
	}{
		{0, North},
		{22, North},
		{23, NorthEast},
		{180, South},
		{200, South},
		{337.6, North},
		{-90, West},
		{720 + 90, East},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.angle), func(t *testing.T) {
			if got := NearestDirection(tt.angle); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
