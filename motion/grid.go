package motion

import "image"

// Partition splits a frame of the given size into the initial grid of
// regions, row-major. With border exclusion at depth 0 the outermost ring of
// cells is omitted, which leaves nothing for grids under 3x3.
func Partition(height, width int, cfg Config, depth int) []Region {
	if cfg.GridRows < 1 || cfg.GridCols < 1 || height <= 0 || width <= 0 {
		return nil
	}
	cellH := height / cfg.GridRows
	cellW := width / cfg.GridCols

	rowStart, rowEnd := 0, cfg.GridRows
	colStart, colEnd := 0, cfg.GridCols
	if cfg.ExcludeBorderSections && depth == 0 {
		rowStart, rowEnd = 1, cfg.GridRows-1
		colStart, colEnd = 1, cfg.GridCols-1
	}
	if rowEnd <= rowStart || colEnd <= colStart {
		return nil
	}

	regions := make([]Region, 0, (rowEnd-rowStart)*(colEnd-colStart))
	for row := rowStart; row < rowEnd; row++ {
		for col := colStart; col < colEnd; col++ {
			x := col * cellW
			y := row * cellH
			w := min(cellW, width-x)
			h := min(cellH, height-y)
			regions = append(regions, NewRegion(image.Rect(x, y, x+w, y+h), depth))
		}
	}
	return regions
}

// subdivide splits r into factor x factor row-major sub-rectangles and drops
// those not larger than MinRegionSize in both dimensions.
func subdivide(r image.Rectangle, factor int) []image.Rectangle {
	subW := r.Dx() / factor
	subH := r.Dy() / factor
	out := make([]image.Rectangle, 0, factor*factor)
	for row := 0; row < factor; row++ {
		for col := 0; col < factor; col++ {
			w := min(subW, r.Dx()-col*subW)
			h := min(subH, r.Dy()-row*subH)
			if w <= MinRegionSize || h <= MinRegionSize {
				continue
			}
			x := r.Min.X + col*subW
			y := r.Min.Y + row*subH
			out = append(out, image.Rect(x, y, x+w, y+h))
		}
	}
	return out
}
