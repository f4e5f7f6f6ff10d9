package motion

import (
	"image"
	"math/rand"
)

func noiseFrame(w, h int, seed int64) *Frame {
	rng := rand.New(rand.NewSource(seed))
	f := NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = float32(rng.Intn(256))
	}
	return f
}

// shifted returns f moved by (dx, dy); uncovered samples are set to fill.
func shifted(f *Frame, dx, dy int, fill float32) *Frame {
	out := NewFrame(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			sx, sy := x-dx, y-dy
			if sx < 0 || sy < 0 || sx >= f.Width || sy >= f.Height {
				out.Set(x, y, fill)
				continue
			}
			out.Set(x, y, f.At(sx, sy))
		}
	}
	return out
}

// rampFrame is a linear intensity ramp; any shift of a patch is a constant
// offset, so every in-bounds candidate correlates perfectly.
func rampFrame(w, h int) *Frame {
	f := NewFrame(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, float32(x+2*y))
		}
	}
	return f
}

// blockFrame is black except for noise inside r.
func blockFrame(w, h int, r image.Rectangle, seed int64) *Frame {
	noise := noiseFrame(w, h, seed)
	f := NewFrame(w, h)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.Set(x, y, noise.At(x, y))
		}
	}
	return f
}
