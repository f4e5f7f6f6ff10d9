package imgproc

import (
	"log/slog"

	"github.com/DaniruKun/grid-motion/motion"
)

// Observer receives every estimated frame pair. Returning false stops the
// frame loop.
type Observer interface {
	Observe(frame int, res motion.Result) bool
}

// Options controls the frame loop outside of the motion and visualization
// settings held in config.Config.
type Options struct {
	Output        string // Output video path, empty to disable
	ShowGUI       bool   // Show a window with the annotated frames
	WindowName    string
	ProgressEvery int // Log progress every n estimated pairs, 0 disables
	Observers     []Observer
	Logger        *slog.Logger
}

// DefaultProgressEvery is the progress log interval, in pairs, used by the CLI.
const DefaultProgressEvery = 30

const (
	defaultWindowName = "Motion Analysis"
	outputCodec       = "mp4v"
	fallbackFPS       = 30
)

func (o *Options) setDefaults() {
	if o.WindowName == "" {
		o.WindowName = defaultWindowName
	}
	if o.ProgressEvery < 0 {
		o.ProgressEvery = 0
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
