package imgproc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gocv.io/x/gocv"

	"github.com/DaniruKun/grid-motion/config"
	"github.com/DaniruKun/grid-motion/motion"
)

// frameSelector applies the skip, stride and limit settings to a stream of
// 1-based frame numbers.
type frameSelector struct {
	skip  int // frames dropped before processing starts
	every int // process every nth frame
	limit int // frames after the skipped ones, 0 for all
}

func newFrameSelector(cfg *config.Config) frameSelector {
	return frameSelector{skip: cfg.SkipFrames, every: max(cfg.FrameSkip, 1), limit: cfg.MaxFrames}
}

// decide reports whether frame n is processed and whether the stream should
// stop before it.
func (s frameSelector) decide(n int) (process, stop bool) {
	if n <= s.skip {
		return false, false
	}
	if s.limit > 0 && n-s.skip > s.limit {
		return false, true
	}
	return n%s.every == 0, false
}

// MatToFrame converts a BGR (or already grey) Mat to a motion.Frame, using
// gray as scratch space.
func MatToFrame(src gocv.Mat, gray *gocv.Mat) (*motion.Frame, error) {
	switch src.Channels() {
	case 1:
		src.CopyTo(gray)
	case 3:
		gocv.CvtColor(src, gray, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, gray, gocv.ColorBGRAToGray)
	default:
		return nil, fmt.Errorf("unsupported channel count %d", src.Channels())
	}
	if gray.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("unsupported mat type %v", gray.Type())
	}
	if !gray.IsContinuous() {
		c := gray.Clone()
		defer c.Close()
		return motion.FrameFromBytes(c.Cols(), c.Rows(), c.Cols(), c.ToBytes())
	}
	return motion.FrameFromBytes(gray.Cols(), gray.Rows(), gray.Cols(), gray.ToBytes())
}

// CollectFrames reads the selected frames of src as grayscale frames.
func CollectFrames(ctx context.Context, src Source, cfg *config.Config) ([]*motion.Frame, error) {
	sel := newFrameSelector(cfg)
	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	var frames []*motion.Frame
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		if err := src.Read(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return frames, err
		}
		process, stop := sel.decide(n)
		if stop {
			return frames, nil
		}
		if !process {
			continue
		}
		f, err := MatToFrame(frame, &gray)
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", n, err)
		}
		frames = append(frames, f)
	}
}
