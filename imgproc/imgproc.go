package imgproc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"gocv.io/x/gocv"

	"github.com/DaniruKun/grid-motion/config"
	"github.com/DaniruKun/grid-motion/motion"
)

// Summary describes a finished frame loop.
type Summary struct {
	Frames       int // frames read from the source
	Pairs        int // frame pairs estimated
	SkippedPairs int // pairs dropped after a per-pair failure
	Directions   [motion.NumDirections]int
	MeanStrength float64
	Elapsed      time.Duration
}

func (s *Summary) add(o motion.Overall) {
	if o.Strength > motion.MinorMotionThreshold {
		s.Directions[o.Direction()]++
	}
	s.MeanStrength += (o.Strength - s.MeanStrength) / float64(s.Pairs)
}

// TrackMotion runs the estimator over consecutive selected frames of src.
// Each pair is rendered, optionally shown and written to opts.Output, and
// passed to the observers. A pair whose frames differ in shape is logged and
// skipped; source and output errors end the loop.
func TrackMotion(ctx context.Context, src Source, cfg *config.Config, opts Options) (Summary, error) {
	opts.setDefaults()
	log := opts.Logger
	start := time.Now()
	var sum Summary

	mcfg := cfg.Motion()
	est, err := motion.NewEstimator(mcfg, motion.WithWorkers(cfg.Workers), motion.WithLogger(log))
	if err != nil {
		return sum, err
	}

	renderer := NewRenderer(cfg)
	defer renderer.Close()

	var window *gocv.Window
	if opts.ShowGUI {
		window = gocv.NewWindow(opts.WindowName)
		defer window.Close()
	}

	var writer *gocv.VideoWriter
	defer func() {
		if writer != nil {
			writer.Close()
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()
	gray := gocv.NewMat()
	defer gray.Close()

	total := src.FrameCount()
	sel := newFrameSelector(cfg)
	var prev *motion.Frame

	log.Info("processing source", "frames", total, "fps", src.FPS(),
		"grid", fmt.Sprintf("%dx%d", mcfg.GridRows, mcfg.GridCols),
		"step", mcfg.SearchStepSize, "max_depth", mcfg.MaxRecursiveDepth,
		"threshold", mcfg.MotionThreshold)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			log.Info("stopping processing", "reason", err)
			break
		}
		if err := src.Read(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("source closed", "frames", sum.Frames)
				break
			}
			return finish(sum, start), fmt.Errorf("read frame %d: %w", n, err)
		}
		sum.Frames++

		process, stop := sel.decide(n)
		if stop {
			break
		}
		if !process {
			continue
		}

		cur, err := MatToFrame(frame, &gray)
		if err != nil {
			return finish(sum, start), fmt.Errorf("frame %d: %w", n, err)
		}
		if prev == nil {
			prev = cur
			continue
		}

		res, err := est.Estimate(prev, cur)
		prev = cur
		if err != nil {
			if errors.Is(err, motion.ErrFrameShapeMismatch) {
				sum.SkippedPairs++
				log.Warn("skipping frame pair", "frame", n, "err", err)
				continue
			}
			return finish(sum, start), fmt.Errorf("frame %d: %w", n, err)
		}
		sum.Pairs++
		sum.add(res.Overall)

		vis := renderer.Render(frame, res)
		if window != nil {
			window.IMShow(vis)
		}
		if opts.Output != "" {
			if writer == nil {
				writer, err = openWriter(opts.Output, src.FPS(), vis)
				if err != nil {
					vis.Close()
					return finish(sum, start), err
				}
			}
			if err := writer.Write(vis); err != nil {
				vis.Close()
				return finish(sum, start), fmt.Errorf("write frame %d: %w", n, err)
			}
		}
		vis.Close()

		if opts.ProgressEvery > 0 && sum.Pairs%opts.ProgressEvery == 0 {
			attrs := []any{"frame", n, "pairs", sum.Pairs, "angle", res.Overall.Angle, "strength", res.Overall.Strength,
				"regions", motion.CountRegions(res.Regions), "took", res.Duration}
			if total > 0 {
				attrs = append(attrs, "progress", fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100))
			}
			log.Info("progress", attrs...)
		}

		if !notify(opts.Observers, n, res) {
			log.Info("stopping processing", "reason", "observer")
			break
		}
		if window != nil && window.WaitKey(1) == 'q' {
			log.Info("stopping processing", "reason", "key")
			break
		}
	}

	sum = finish(sum, start)
	log.Info("video processing complete", "frames", sum.Frames, "pairs", sum.Pairs,
		"skipped", sum.SkippedPairs, "mean_strength", sum.MeanStrength, "elapsed", sum.Elapsed)
	return sum, nil
}

func notify(observers []Observer, n int, res motion.Result) bool {
	keep := true
	for _, o := range observers {
		if !o.Observe(n, res) {
			keep = false
		}
	}
	return keep
}

func finish(s Summary, start time.Time) Summary {
	s.Elapsed = time.Since(start)
	return s
}

func openWriter(path string, fps float64, first gocv.Mat) (*gocv.VideoWriter, error) {
	if fps <= 0 {
		fps = fallbackFPS
	}
	w, err := gocv.VideoWriterFile(path, outputCodec, fps, first.Cols(), first.Rows(), true)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return w, nil
}
