package motion

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Frame is a single-channel intensity buffer stored row-major.
// Samples keep the scale of their source (0-255 for 8-bit input); the block
// matcher normalizes patches itself.
type Frame struct {
	Width, Height int
	Pix           []float32
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{Width: width, Height: height, Pix: make([]float32, width*height)}
}

// FrameFromBytes wraps 8-bit samples in row-major order with the given stride.
func FrameFromBytes(width, height, stride int, pix []byte) (*Frame, error) {
	if stride < width || len(pix) < (height-1)*stride+width {
		return nil, fmt.Errorf("frame from bytes: %d samples too short for %dx%d stride %d", len(pix), width, height, stride)
	}
	f := NewFrame(width, height)
	for y := 0; y < height; y++ {
		row := pix[y*stride : y*stride+width]
		out := f.Pix[y*width : (y+1)*width]
		for x, v := range row {
			out[x] = float32(v)
		}
	}
	return f, nil
}

// FrameFromFloat wraps floating point samples. The slice is copied. NaN and
// infinite samples are rejected with ErrNonFiniteSample.
func FrameFromFloat(width, height int, pix []float32) (*Frame, error) {
	if len(pix) != width*height {
		return nil, fmt.Errorf("frame from float: got %d samples, want %d", len(pix), width*height)
	}
	for i, v := range pix {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("frame from float: sample (%d, %d) is %v: %w", i%width, i/width, v, ErrNonFiniteSample)
		}
	}
	f := NewFrame(width, height)
	copy(f.Pix, pix)
	return f, nil
}

// FrameFromGray copies an 8-bit grayscale image.
func FrameFromGray(img *image.Gray) *Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+y)
		row := img.Pix[off : off+f.Width]
		out := f.Pix[y*f.Width : (y+1)*f.Width]
		for x, v := range row {
			out[x] = float32(v)
		}
	}
	return f
}

// FrameFromImage converts any image to luma on a 0-255 scale.
func FrameFromImage(img image.Image) *Frame {
	if g, ok := img.(*image.Gray); ok {
		return FrameFromGray(g)
	}
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			f.Pix[y*f.Width+x] = float32(g.Y)
		}
	}
	return f
}

// Bounds returns the frame rectangle anchored at the origin.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// At returns the sample at (x, y). It panics outside the frame.
func (f *Frame) At(x, y int) float32 {
	return f.Pix[y*f.Width+x]
}

// Set stores the sample at (x, y).
func (f *Frame) Set(x, y int, v float32) {
	f.Pix[y*f.Width+x] = v
}

// SameShape reports whether f and o have identical dimensions.
func (f *Frame) SameShape(o *Frame) bool {
	return f != nil && o != nil && f.Width == o.Width && f.Height == o.Height
}

// Patch copies the samples under r into a new frame.
func (f *Frame) Patch(r image.Rectangle) (*Frame, error) {
	if !r.In(f.Bounds()) {
		return nil, fmt.Errorf("patch %v of %dx%d frame: %w", r, f.Width, f.Height, ErrPatchOutOfBounds)
	}
	p := NewFrame(r.Dx(), r.Dy())
	for y := 0; y < p.Height; y++ {
		src := f.Pix[(r.Min.Y+y)*f.Width+r.Min.X:]
		copy(p.Pix[y*p.Width:(y+1)*p.Width], src[:p.Width])
	}
	return p, nil
}
