package motion

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rects(regions []Region) []image.Rectangle {
	out := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		out[i] = r.Rect
	}
	return out
}

func TestPartitionFullGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridRows, cfg.GridCols = 2, 3
	cfg.ExcludeBorderSections = false

	regions := Partition(40, 60, cfg, 0)
	assert.Equal(t, []image.Rectangle{
		image.Rect(0, 0, 20, 20), image.Rect(20, 0, 40, 20), image.Rect(40, 0, 60, 20),
		image.Rect(0, 20, 20, 40), image.Rect(20, 20, 40, 40), image.Rect(40, 20, 60, 40),
	}, rects(regions))
	for _, r := range regions {
		assert.Equal(t, 0, r.Depth)
		assert.Equal(t, DirectionUnset, r.BestDirection)
		assert.Equal(t, -1.0, r.MotionStrength)
	}
}

func TestPartitionExcludesBorder(t *testing.T) {
	cfg := DefaultConfig()
	regions := Partition(100, 100, cfg, 0)
	require.Len(t, regions, 9)
	assert.Equal(t, image.Rect(20, 20, 40, 40), regions[0].Rect)
	assert.Equal(t, image.Rect(60, 60, 80, 80), regions[8].Rect)

	// Border exclusion only applies to the top-level call.
	assert.Len(t, Partition(100, 100, cfg, 1), 25)
}

func TestPartitionSmallGridWithBorderIsEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridRows, cfg.GridCols = 2, 5
	assert.Empty(t, Partition(100, 100, cfg, 0))

	cfg.GridRows, cfg.GridCols = 1, 1
	assert.Empty(t, Partition(100, 100, cfg, 0))
}

func TestPartitionStaysInFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridRows, cfg.GridCols = 4, 7
	cfg.ExcludeBorderSections = false
	bounds := image.Rect(0, 0, 103, 61)
	for _, r := range Partition(61, 103, cfg, 0) {
		assert.True(t, r.Rect.In(bounds), "region %v outside frame", r.Rect)
		assert.Equal(t, 14, r.Rect.Dx())
		assert.Equal(t, 15, r.Rect.Dy())
	}
}

func TestPartitionDegenerateInput(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, Partition(0, 100, cfg, 0))
	cfg.GridRows = 0
	assert.Empty(t, Partition(100, 100, cfg, 0))
}

func TestSubdivide(t *testing.T) {
	parent := image.Rect(10, 20, 35, 45)
	got := subdivide(parent, 2)
	assert.Equal(t, []image.Rectangle{
		image.Rect(10, 20, 22, 32), image.Rect(22, 20, 34, 32),
		image.Rect(10, 32, 22, 44), image.Rect(22, 32, 34, 44),
	}, got)
	for _, r := range got {
		assert.True(t, r.In(parent))
	}

	// 21/2 = 10 is not larger than the minimum size.
	assert.Empty(t, subdivide(image.Rect(0, 0, 21, 40), 2))
	assert.Len(t, subdivide(image.Rect(0, 0, 99, 99), 3), 9)
}
