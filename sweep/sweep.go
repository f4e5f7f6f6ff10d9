// Package sweep compares estimator configurations on the same frames.
//
// Every trial builds its own Estimator from its own motion.Config value, so
// trials cannot influence each other. Scores follow a simple rubric: accuracy
// is 100 minus twice the mean circular deviation from the expected angle,
// stability is 100 minus half the standard deviation of the detected angles,
// and the overall score is their mean.
package sweep

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/DaniruKun/grid-motion/motion"
)

// Trial is one named configuration to evaluate.
type Trial struct {
	Name   string        `json:"name"`
	Config motion.Config `json:"config"`
}

// Result holds the metrics of one trial. Error is set when the trial could
// not produce significant motion or failed outright.
type Result struct {
	Name                string        `json:"test_name"`
	Config              motion.Config `json:"config"`
	Error               string        `json:"error,omitempty"`
	FramesProcessed     int           `json:"frames_processed"`
	SignificantFrames   int           `json:"significant_motion_frames"`
	AvgProcessingTimeMs float64       `json:"avg_processing_time_ms"`
	AvgDeviation        float64       `json:"avg_deviation"`
	StdDeviation        float64       `json:"std_deviation"`
	MaxDeviation        float64       `json:"max_deviation"`
	AngleStability      float64       `json:"angle_stability"`
	StrengthConsistency float64       `json:"strength_consistency"`
	AvgStrength         float64       `json:"avg_strength"`
	AvgAngle            float64       `json:"avg_angle"`
	AngleRange          float64       `json:"angle_range"`
	RawAngles           []float64     `json:"raw_angles"`
	AccuracyScore       float64       `json:"accuracy_score"`
	StabilityScore      float64       `json:"stability_score"`
	OverallScore        float64       `json:"overall_score"`
}

// Failed reports whether the trial produced no scores.
func (r Result) Failed() bool { return r.Error != "" }

// rawAngleSamples is how many detected angles a Result keeps for inspection.
const rawAngleSamples = 10

// DefaultTrials returns the standard set of configurations to compare.
func DefaultTrials() []Trial {
	base := func(rows, cols, step int, threshold float64, depth int) motion.Config {
		c := motion.DefaultConfig()
		c.GridRows, c.GridCols = rows, cols
		c.SearchStepSize = step
		c.MotionThreshold = threshold
		c.MaxRecursiveDepth = depth
		return c
	}
	return []Trial{
		{"Baseline", base(5, 5, 1, 5, 1)},
		{"Higher Resolution Grid", base(8, 8, 1, 5, 1)},
		{"Larger Search Step", base(5, 5, 3, 5, 1)},
		{"Lower Motion Threshold", base(5, 5, 1, 0.2, 1)},
		{"With Recursion", base(5, 5, 1, 0.3, 2)},
		{"Coarser Grid + Larger Steps", base(3, 3, 5, 5, 1)},
		{"Fine Grid + Small Steps", base(10, 10, 1, 5, 0)},
	}
}

// Progress is called after each frame pair of each trial.
type Progress func(trial string, pair, pairs int)

// Run evaluates every trial against consecutive pairs of frames and returns
// the results in trial order.
func Run(frames []*motion.Frame, trials []Trial, expectedAngle float64, progress Progress) []Result {
	results := make([]Result, 0, len(trials))
	for _, t := range trials {
		results = append(results, runTrial(frames, t, expectedAngle, progress))
	}
	return results
}

func runTrial(frames []*motion.Frame, t Trial, expectedAngle float64, progress Progress) Result {
	res := Result{Name: t.Name, Config: t.Config}
	est, err := motion.NewEstimator(t.Config)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	pairs := max(len(frames)-1, 0)
	overall := make([]motion.Overall, 0, pairs)
	var elapsed time.Duration
	for i := 1; i < len(frames); i++ {
		r, err := est.Estimate(frames[i-1], frames[i])
		if err != nil {
			res.Error = fmt.Sprintf("pair %d: %v", i, err)
			return res
		}
		overall = append(overall, r.Overall)
		elapsed += r.Duration
		if progress != nil {
			progress(t.Name, i, pairs)
		}
	}
	res.Score(overall, elapsed, expectedAngle)
	return res
}

// Score fills the metrics from the overall estimates of consecutive pairs.
func (r *Result) Score(overall []motion.Overall, elapsed time.Duration, expectedAngle float64) {
	r.FramesProcessed = len(overall)
	if len(overall) == 0 {
		r.Error = "no motion data collected"
		return
	}
	r.AvgProcessingTimeMs = float64(elapsed.Microseconds()) / 1000 / float64(len(overall))

	var angles, strengths, deviations []float64
	for _, o := range overall {
		if o.Strength <= motion.MinorMotionThreshold {
			continue
		}
		angles = append(angles, o.Angle)
		strengths = append(strengths, o.Strength)
		deviations = append(deviations, AngularDistance(o.Angle, expectedAngle))
	}
	r.SignificantFrames = len(angles)
	if len(angles) == 0 {
		r.Error = "no significant motion detected"
		return
	}

	r.AvgDeviation = mean(deviations)
	r.StdDeviation = stddev(deviations)
	r.MaxDeviation = maxOf(deviations)
	r.AngleStability = stddev(angles)
	r.StrengthConsistency = stddev(strengths)
	r.AvgStrength = mean(strengths)
	r.AvgAngle = mean(angles)
	r.AngleRange = maxOf(angles) - minOf(angles)
	r.RawAngles = append([]float64(nil), angles[:min(len(angles), rawAngleSamples)]...)

	r.AccuracyScore = math.Max(0, 100-2*r.AvgDeviation)
	r.StabilityScore = math.Max(0, 100-0.5*r.AngleStability)
	r.OverallScore = (r.AccuracyScore + r.StabilityScore) / 2
}

// Rank orders results by overall score, best first. Failed trials sort last
// and keep their relative order.
func Rank(results []Result) []Result {
	out := append([]Result(nil), results...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Failed() != out[j].Failed() {
			return !out[i].Failed()
		}
		return out[i].OverallScore > out[j].OverallScore
	})
	return out
}

// WriteReport encodes results as indented JSON.
func WriteReport(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// AngularDistance is the smallest angle in degrees between a and b.
func AngularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

func mean(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

// stddev is the population standard deviation.
func stddev(v []float64) float64 {
	m := mean(v)
	var s float64
	for _, x := range v {
		s += (x - m) * (x - m)
	}
	return math.Sqrt(s / float64(len(v)))
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}
