/*
Copyright © 2022 Daniils Petrovs <thedanpetrov@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/DaniruKun/grid-motion/imgproc"
	"github.com/DaniruKun/grid-motion/motion"
	"github.com/DaniruKun/grid-motion/sweep"
)

const topResults = 5

var sweepCmd = &cobra.Command{
	Use:   "sweep <source>",
	Short: "Compare estimator configurations on one source",
	Long: `Runs a fixed set of estimator configurations over the same frames and
scores each against the expected direction of motion. Results are ranked
and written as JSON.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runSweep,
}

func init() {
	sweepCmd.Flags().Float64("expected-angle", 180, "Expected motion angle in degrees, clockwise from north")
	sweepCmd.Flags().String("report", "test_results.json", "Path of the JSON report")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	log, err := newLogger(flags, false)
	if err != nil {
		return err
	}
	expected, _ := flags.GetFloat64("expected-angle")
	reportPath, _ := flags.GetString("report")
	screenFrames, _ := flags.GetInt("screen-frames")

	src, err := imgproc.OpenSource(args[0], screenFrames)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	frames, err := imgproc.CollectFrames(ctx, src, cfg)
	if err != nil {
		return fmt.Errorf("read frames: %w", err)
	}
	if len(frames) < 2 {
		return fmt.Errorf("need at least 2 frames, got %d", len(frames))
	}
	log.Info("frames loaded", "frames", len(frames), "source", args[0])

	trials := sweep.DefaultTrials()
	for i := range trials {
		trials[i].Config.Aggregation = cfg.Aggregation
	}

	start := time.Now()
	results := runTrials(cmd.OutOrStdout(), frames, trials, expected)
	log.Info("sweep finished", "trials", len(results), "elapsed", time.Since(start))

	ranked := sweep.Rank(results)
	f, err := os.Create(reportPath)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := sweep.WriteReport(f, ranked); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printRanking(cmd.OutOrStdout(), ranked, expected)
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", reportPath)
	return nil
}

// runTrials runs the sweep while a spinner reports progress.
func runTrials(w io.Writer, frames []*motion.Frame, trials []sweep.Trial, expected float64) []sweep.Result {
	var (
		current   atomic.Value
		pair      atomic.Int64
		pairs     atomic.Int64
		spinnerWg sync.WaitGroup
	)
	current.Store("")
	done := make(chan struct{})

	spinnerWg.Add(1)
	go func() {
		defer spinnerWg.Done()
		s := spinner.New()
		s.Spinner = spinner.Dot
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				fmt.Fprintf(w, "\r\033[K✓ %d configurations evaluated.\n", len(trials))
				return
			case <-ticker.C:
				s, _ = s.Update(spinner.TickMsg{})
				fmt.Fprintf(w, "\r\033[K%s %s %d/%d", s.View(), current.Load(), pair.Load(), pairs.Load())
			}
		}
	}()

	results := sweep.Run(frames, trials, expected, func(trial string, p, n int) {
		current.Store(trial)
		pair.Store(int64(p))
		pairs.Store(int64(n))
	})
	close(done)
	spinnerWg.Wait()
	return results
}

var (
	rankStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("202")).Width(4)
	nameStyle  = lipgloss.NewStyle().Width(30)
	scoreStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
)

func printRanking(w io.Writer, ranked []sweep.Result, expected float64) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Top configurations (expected %.0f°)", expected)))
	for i, r := range ranked[:min(len(ranked), topResults)] {
		var detail string
		if r.Failed() {
			detail = errStyle.Render(r.Error)
		} else {
			detail = scoreStyle.Render(fmt.Sprintf("score %5.1f  accuracy %5.1f  stability %5.1f  avg %.1f°",
				r.OverallScore, r.AccuracyScore, r.StabilityScore, r.AvgAngle))
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			rankStyle.Render(fmt.Sprintf("%d.", i+1)), nameStyle.Render(r.Name), detail))
	}
}
