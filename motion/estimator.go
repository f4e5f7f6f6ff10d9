package motion

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Result is the motion estimate for one frame pair.
type Result struct {
	Regions  []Region
	Overall  Overall
	Duration time.Duration
}

// Empty reports whether the grid produced no regions. This is a valid state
// and Overall is then the zero value.
func (r Result) Empty() bool { return len(r.Regions) == 0 }

// Estimator runs the partition, refine and aggregate pipeline with a fixed
// Config. It holds no per-pair state and is safe for concurrent use.
type Estimator struct {
	cfg     Config
	workers int
	logger  *slog.Logger
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithWorkers fans top-level regions out across n goroutines. Values below 2
// keep processing on the calling goroutine.
func WithWorkers(n int) Option {
	return func(e *Estimator) { e.workers = n }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEstimator validates cfg and returns an Estimator.
func NewEstimator(cfg Config, opts ...Option) (*Estimator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{
		cfg:     cfg,
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the estimator configuration.
func (e *Estimator) Config() Config { return e.cfg }

// Estimate computes the region forest and the overall motion between prev
// and cur. A shape mismatch fails only this pair with ErrFrameShapeMismatch.
func (e *Estimator) Estimate(prev, cur *Frame) (Result, error) {
	start := time.Now()
	if !prev.SameShape(cur) {
		return Result{}, shapeError(prev, cur)
	}
	regions := Partition(cur.Height, cur.Width, e.cfg, 0)
	if len(regions) == 0 {
		e.logger.Debug("empty grid", "width", cur.Width, "height", cur.Height,
			"rows", e.cfg.GridRows, "cols", e.cfg.GridCols)
		return Result{Duration: time.Since(start)}, nil
	}

	var err error
	if e.workers > 1 && len(regions) > 1 {
		err = e.refineParallel(prev, cur, regions)
	} else {
		err = Refine(prev, cur, regions, e.cfg)
	}
	if err != nil {
		return Result{}, fmt.Errorf("refine: %w", err)
	}

	res := Result{
		Regions:  regions,
		Overall:  Aggregate(regions, e.cfg.Aggregation),
		Duration: time.Since(start),
	}
	e.logger.Debug("estimated frame pair",
		"regions", CountRegions(regions),
		"depth", MaxDepth(regions),
		"angle", res.Overall.Angle,
		"strength", res.Overall.Strength,
		"took", res.Duration)
	return res, nil
}

// refineParallel refines each top-level region on a worker goroutine. Every
// region is written only through its own index, so the forest matches the
// serial result exactly.
func (e *Estimator) refineParallel(prev, cur *Frame, regions []Region) error {
	jobs := make(chan int, len(regions))
	errs := make([]error, len(regions))

	var wg sync.WaitGroup
	for i := 0; i < min(e.workers, len(regions)); i++ {
		wg.Add(1)
		go refineWorker(&wg, jobs, prev, cur, regions, errs, e.cfg)
	}
	for i := range regions {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func refineWorker(wg *sync.WaitGroup, jobs <-chan int, prev, cur *Frame, regions []Region, errs []error, cfg Config) {
	defer wg.Done()
	for i := range jobs {
		errs[i] = refineRegion(prev, cur, &regions[i], cfg)
	}
}
