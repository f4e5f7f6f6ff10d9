package motion

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchAt(t *testing.T, prev, cur *Frame, rect image.Rectangle, step int) MatchResult {
	t.Helper()
	ref, err := prev.Patch(rect)
	require.NoError(t, err)
	return MatchBlock(ref, cur, rect, step)
}

func TestMatchBlockFindsShift(t *testing.T) {
	prev := noiseFrame(64, 64, 1)
	rect := image.Rect(16, 16, 48, 48)

	var tests = []struct {
		name   string
		dx, dy int
		step   int
		want   Direction
	}{
		{"south step 1", 0, 1, 1, South},
		{"south step 3", 0, 3, 3, South},
		{"east", 2, 0, 2, East},
		{"north west", -2, -2, 2, NorthWest},
		{"south west", -1, 1, 1, SouthWest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := shifted(prev, tt.dx, tt.dy, 0)
			res := matchAt(t, prev, cur, rect, tt.step)
			assert.True(t, res.Valid)
			assert.Equal(t, tt.want, res.Direction)
			assert.InDelta(t, 1.0, res.Score, 1e-6)
		})
	}
}

func TestMatchBlockIgnoresBrightnessAndContrast(t *testing.T) {
	prev := noiseFrame(64, 64, 2)
	cur := shifted(prev, 0, 2, 0)
	for i, v := range cur.Pix {
		cur.Pix[i] = v*0.5 + 40
	}
	res := matchAt(t, prev, cur, image.Rect(20, 20, 44, 44), 2)
	assert.Equal(t, South, res.Direction)
	assert.InDelta(t, 1.0, res.Score, 1e-6)
}

func TestMatchBlockNoValidCandidate(t *testing.T) {
	prev := noiseFrame(64, 64, 3)
	res := matchAt(t, prev, prev, prev.Bounds(), 1)
	assert.False(t, res.Valid)
	assert.Equal(t, North, res.Direction)
	assert.Equal(t, -1.0, res.Score)
}

func TestMatchBlockSkipsOutOfBoundsCandidates(t *testing.T) {
	prev := noiseFrame(64, 64, 4)
	cur := shifted(prev, 0, 2, 0)
	// Top-left corner: only E, SE and S fit inside the frame.
	res := matchAt(t, prev, cur, image.Rect(0, 0, 20, 20), 2)
	require.True(t, res.Valid)
	assert.Equal(t, South, res.Direction)

	// Touching the bottom-right edge exactly is still inside.
	rect := image.Rect(44, 42, 62, 62)
	cur = shifted(prev, 2, 0, 0)
	res = matchAt(t, prev, cur, rect, 2)
	require.True(t, res.Valid)
	assert.Equal(t, East, res.Direction)
}

func TestMatchBlockTiesKeepEarliestDirection(t *testing.T) {
	f := rampFrame(40, 40)
	res := matchAt(t, f, f, image.Rect(10, 10, 30, 30), 1)
	require.True(t, res.Valid)
	assert.Equal(t, North, res.Direction)
	assert.InDelta(t, 1.0, res.Score, 1e-9)

	// With North out of bounds, the next direction in table order wins.
	res = matchAt(t, f, f, image.Rect(10, 0, 30, 20), 1)
	require.True(t, res.Valid)
	assert.Equal(t, East, res.Direction)
}

func TestMatchBlockFlatPatchScoresZero(t *testing.T) {
	flat := NewFrame(40, 40)
	res := matchAt(t, flat, noiseFrame(40, 40, 5), image.Rect(10, 10, 30, 30), 1)
	require.True(t, res.Valid)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, North, res.Direction)
}

func TestMatchBlockRejectsMismatchedReference(t *testing.T) {
	f := noiseFrame(40, 40, 6)
	ref, err := f.Patch(image.Rect(0, 0, 10, 10))
	require.NoError(t, err)
	res := MatchBlock(ref, f, image.Rect(10, 10, 30, 30), 1)
	assert.False(t, res.Valid)
	assert.Equal(t, -1.0, res.Score)
}

func TestNormalizeMinMax(t *testing.T) {
	dst := make([]float64, 3)
	normalizeMinMax([]float32{10, 20, 30}, dst)
	assert.Equal(t, []float64{0, 0.5, 1}, dst)

	normalizeMinMax([]float32{7, 7, 7}, dst)
	assert.Equal(t, []float64{0, 0, 0}, dst)
}

func TestMatchBlockSkipsNaNCandidates(t *testing.T) {
	prev := noiseFrame(64, 64, 12)
	cur := shifted(prev, 0, 1, 0)
	rect := image.Rect(20, 20, 40, 40)
	// Row 19 is only covered by the north-facing candidates.
	cur.Set(30, 19, float32(math.NaN()))

	res := matchAt(t, prev, cur, rect, 1)
	require.True(t, res.Valid)
	assert.Equal(t, South, res.Direction)
	assert.False(t, math.IsNaN(res.Score))
	assert.Greater(t, res.Score, 0.99)
}

func TestMatchBlockNaNReferenceHasNoCandidate(t *testing.T) {
	prev := noiseFrame(64, 64, 13)
	rect := image.Rect(20, 20, 40, 40)
	ref, err := prev.Patch(rect)
	require.NoError(t, err)
	ref.Set(5, 5, float32(math.Inf(1)))

	res := MatchBlock(ref, prev, rect, 1)
	assert.Equal(t, noMatch, res)
}
