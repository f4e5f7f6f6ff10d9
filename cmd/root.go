/*
Copyright © 2022 Daniils Petrovs <thedanpetrov@gmail.com>

*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/DaniruKun/grid-motion/config"
	"github.com/DaniruKun/grid-motion/imgproc"
	"github.com/DaniruKun/grid-motion/motion"
	"github.com/DaniruKun/grid-motion/tui"
	"github.com/DaniruKun/grid-motion/utils"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "grid-motion <source>",
	Short: "Grid Motion",
	Long: `Estimates the dominant direction of motion between consecutive frames of a
video file, camera, image directory or the screen, and renders the per-region
motion on top of the frames.

The source is a video path, a camera index, a directory of images or "screen".`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runAnalyze,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	addConfigFlags(rootCmd.PersistentFlags())

	f := rootCmd.Flags()
	f.StringP("output", "o", "", "Output video file")
	f.BoolP("save", "s", false, "Save the annotated video next to the input")
	f.BoolP("gui", "g", false, "Show GUI with preview")
	f.BoolP("tui", "t", false, "Show a terminal dashboard")
	f.String("write-config", "", "Write the effective config to this file and exit")
}

// addConfigFlags registers the flags shared by every command.
func addConfigFlags(pf *pflag.FlagSet) {
	pf.StringP("config", "c", "", "JSON config file")
	pf.IntSlice("grid-size", nil, "Grid size as ROWS,COLS")
	pf.Int("step-size", 0, "Search step size in pixels")
	pf.Int("max-depth", 0, "Maximum recursive depth")
	pf.Float64("motion-threshold", 0, "Strength above which a region is subdivided")
	pf.Int("max-frames", 0, "Process only the first N selected frames (0 for all)")
	pf.Int("skip-frames", 0, "Skip the first N frames before processing")
	pf.Int("frame-skip", 0, "Process every Nth frame")
	pf.Int("workers", 0, "Top-level regions estimated in parallel")
	pf.Bool("leaves-only", false, "Aggregate only unsubdivided regions")
	pf.Int("screen-frames", 300, "Frames to capture when the source is the screen (0 for no limit)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	path, _ := flags.GetString("config")
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if flags.Changed("grid-size") {
		grid, _ := flags.GetIntSlice("grid-size")
		if len(grid) != 2 {
			return nil, &motion.ConfigError{Field: "GridSize", Value: grid, Reason: "want ROWS,COLS"}
		}
		cfg.GridRows, cfg.GridCols = grid[0], grid[1]
	}
	setInt := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	setInt("step-size", &cfg.SearchStepSize)
	setInt("max-depth", &cfg.MaxRecursiveDepth)
	setInt("max-frames", &cfg.MaxFrames)
	setInt("skip-frames", &cfg.SkipFrames)
	setInt("frame-skip", &cfg.FrameSkip)
	setInt("workers", &cfg.Workers)
	if flags.Changed("motion-threshold") {
		cfg.MotionThreshold, _ = flags.GetFloat64("motion-threshold")
	}
	if leaves, _ := flags.GetBool("leaves-only"); leaves {
		cfg.Aggregation = motion.AggregateLeavesOnly
	}
	return cfg, cfg.Validate()
}

func newLogger(flags *pflag.FlagSet, quiet bool) (*slog.Logger, error) {
	name, _ := flags.GetString("log-level")
	level, err := parseLevel(name)
	if err != nil {
		return nil, err
	}
	if quiet && level < slog.LevelError {
		// the dashboard owns the terminal
		level = slog.LevelError
	}
	return NewLogger(os.Stderr, level), nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if path, _ := flags.GetString("write-config"); path != "" {
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", path)
		return nil
	}

	showTUI, _ := flags.GetBool("tui")
	log, err := newLogger(flags, showTUI)
	if err != nil {
		return err
	}

	input := args[0]
	output, _ := flags.GetString("output")
	if save, _ := flags.GetBool("save"); save && output == "" {
		output = utils.DefaultOutputPath(input)
	}
	showGUI, _ := flags.GetBool("gui")
	screenFrames, _ := flags.GetInt("screen-frames")

	printSettings(cmd.OutOrStdout(), input, cfg)

	src, err := imgproc.OpenSource(input, screenFrames)
	if err != nil {
		return err
	}
	defer src.Close()

	opts := imgproc.Options{
		Output:        output,
		ShowGUI:       showGUI,
		ProgressEvery: imgproc.DefaultProgressEvery,
		Logger:        log,
	}
	if showTUI {
		dash, err := tui.New()
		if err != nil {
			return err
		}
		defer dash.Close()
		opts.Observers = append(opts.Observers, dash)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sum, err := imgproc.TrackMotion(ctx, src, cfg, opts)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), sum, output)
	return nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func printSettings(w io.Writer, input string, cfg *config.Config) {
	maxFrames := "all"
	if cfg.MaxFrames > 0 {
		maxFrames = fmt.Sprint(cfg.MaxFrames)
	}
	rows := []string{
		titleStyle.Render("Grid Motion"),
		row("Source", input),
		row("Grid size", fmt.Sprintf("%dx%d", cfg.GridRows, cfg.GridCols)),
		row("Search step", fmt.Sprintf("%d px", cfg.SearchStepSize)),
		row("Max recursive depth", fmt.Sprint(cfg.MaxRecursiveDepth)),
		row("Motion threshold", fmt.Sprint(cfg.MotionThreshold)),
		row("Aggregation", cfg.Aggregation.String()),
		row("Max frames", maxFrames),
		row("Skip frames", fmt.Sprint(cfg.SkipFrames)),
	}
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func printSummary(w io.Writer, sum imgproc.Summary, output string) {
	rows := []string{
		titleStyle.Render("Summary"),
		row("Frames read", fmt.Sprint(sum.Frames)),
		row("Pairs estimated", fmt.Sprint(sum.Pairs)),
		row("Pairs skipped", fmt.Sprint(sum.SkippedPairs)),
		row("Mean strength", fmt.Sprintf("%.3f", sum.MeanStrength)),
		row("Directions", directionCounts(sum)),
		row("Elapsed", sum.Elapsed.String()),
	}
	if output != "" {
		rows = append(rows, row("Output", output))
	}
	fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func directionCounts(sum imgproc.Summary) string {
	var parts []string
	for d := motion.North; d < motion.NumDirections; d++ {
		if n := sum.Directions[d]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", d, n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
