// Package tui shows the overall motion of each frame pair on the terminal.
package tui

import (
	"fmt"
	"image"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/DaniruKun/grid-motion/motion"
)

const (
	dialRadius = 6
	barWidth   = 20
	textColumn = 2*dialRadius*2 + 6
)

var (
	styleDefault = tcell.StyleDefault
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleArrow   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleLabel   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
)

// Dashboard draws a compass dial and per-pair statistics. It implements the
// frame loop's observer contract: Observe returns false once the user has
// pressed q, Esc or Ctrl-C.
type Dashboard struct {
	screen tcell.Screen
	mu     sync.Mutex
	quit   atomic.Bool
	done   chan struct{}
}

// New opens the terminal screen.
func New() (*Dashboard, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewWithScreen(s)
}

// NewWithScreen initialises s and starts the key listener.
func NewWithScreen(s tcell.Screen) (*Dashboard, error) {
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	s.HideCursor()
	s.Clear()
	d := &Dashboard{screen: s, done: make(chan struct{})}
	go d.pollEvents()
	return d, nil
}

// Stopped reports whether the user asked to stop.
func (d *Dashboard) Stopped() bool { return d.quit.Load() }

// Observe redraws the dashboard for one estimated frame pair.
func (d *Dashboard) Observe(frame int, res motion.Result) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.screen
	s.Clear()
	drawDial(s, res.Overall)

	o := res.Overall
	lines := []string{
		fmt.Sprintf("frame     %d", frame),
		fmt.Sprintf("angle     %.0f° (%s)", o.Angle, o.Direction()),
		fmt.Sprintf("strength  [%s] %.2f", strengthBar(o.Strength), o.Strength),
		fmt.Sprintf("regions   %d  depth %d", motion.CountRegions(res.Regions), max(motion.MaxDepth(res.Regions), 0)),
		fmt.Sprintf("took      %s", res.Duration.Round(time.Microsecond)),
		"",
		"q / Esc to stop",
	}
	for i, line := range lines {
		style := styleDefault
		if i == len(lines)-1 {
			style = styleDim
		}
		putString(s, textColumn, 1+i, line, style)
	}
	s.Show()
	return !d.quit.Load()
}

// Close restores the terminal.
func (d *Dashboard) Close() error {
	d.screen.Fini()
	<-d.done
	return nil
}

func (d *Dashboard) pollEvents() {
	defer close(d.done)
	for {
		ev := d.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				d.quit.Store(true)
			}
		case *tcell.EventResize:
			d.mu.Lock()
			d.screen.Sync()
			d.mu.Unlock()
		}
	}
}

// dialCenter is the centre cell of the compass; terminal cells are about
// twice as tall as wide, so x distances are doubled.
func dialCenter() image.Point {
	return image.Pt(2*dialRadius+1, dialRadius+1)
}

func drawDial(s tcell.Screen, o motion.Overall) {
	c := dialCenter()
	for a := 0; a < 360; a += 10 {
		p := dialPoint(c, float64(a), dialRadius)
		s.SetContent(p.X, p.Y, '·', nil, styleDim)
	}
	for _, l := range []struct {
		angle float64
		r     rune
	}{{0, 'N'}, {90, 'E'}, {180, 'S'}, {270, 'W'}} {
		p := dialPoint(c, l.angle, dialRadius+1)
		s.SetContent(p.X, p.Y, l.r, nil, styleLabel)
	}
	for _, p := range arrowCells(c, o) {
		s.SetContent(p.X, p.Y, '*', nil, styleArrow)
	}
	s.SetContent(c.X, c.Y, '+', nil, styleDefault)
}

func dialPoint(c image.Point, angle, radius float64) image.Point {
	rad := angle * math.Pi / 180
	return image.Pt(
		c.X+int(math.Round(2*radius*math.Sin(rad))),
		c.Y-int(math.Round(radius*math.Cos(rad))),
	)
}

// arrowCells returns the cells of the overall motion arrow, from the centre
// outwards. Weak motion draws no arrow.
func arrowCells(c image.Point, o motion.Overall) []image.Point {
	if o.Strength <= motion.MinorMotionThreshold/2 {
		return nil
	}
	length := (dialRadius - 1) * math.Min(o.Strength*3, 1)
	var cells []image.Point
	for step := 1.0; step <= length; step++ {
		p := dialPoint(c, o.Angle, step)
		if len(cells) == 0 || cells[len(cells)-1] != p {
			cells = append(cells, p)
		}
	}
	return cells
}

func strengthBar(strength float64) string {
	n := int(math.Round(math.Max(0, math.Min(strength, 1)) * barWidth))
	return strings.Repeat("#", n) + strings.Repeat(" ", barWidth-n)
}

func putString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
