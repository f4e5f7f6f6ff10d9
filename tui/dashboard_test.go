package tui

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DaniruKun/grid-motion/motion"
)

func newTestDashboard(t *testing.T) (*Dashboard, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	d, err := NewWithScreen(sim)
	require.NoError(t, err)
	sim.SetSize(70, 20)
	t.Cleanup(func() { d.Close() })
	return d, sim
}

func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			runes := cells[y*w+x].Runes
			if len(runes) == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(runes[0])
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func TestObserveDrawsStatistics(t *testing.T) {
	d, sim := newTestDashboard(t)
	res := motion.Result{
		Regions: []motion.Region{{Rect: image.Rect(0, 0, 20, 20), Children: []motion.Region{{Depth: 1}}}},
		Overall: motion.Overall{Angle: 180, Strength: 0.5},
	}
	require.True(t, d.Observe(42, res))

	text := screenText(sim)
	assert.Contains(t, text, "frame     42")
	assert.Contains(t, text, "180° (S)")
	assert.Contains(t, text, "regions   2  depth 1")
	assert.Contains(t, text, "##########")
	assert.Contains(t, text, "*")
}

func TestQuitKeyStopsObserver(t *testing.T) {
	d, sim := newTestDashboard(t)
	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	deadline := time.Now().Add(2 * time.Second)
	for !d.Stopped() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, d.Stopped())
	assert.False(t, d.Observe(1, motion.Result{}))
}

func TestArrowCells(t *testing.T) {
	c := dialCenter()
	assert.Empty(t, arrowCells(c, motion.Overall{Angle: 90, Strength: 0.01}))

	east := arrowCells(c, motion.Overall{Angle: 90, Strength: 1})
	require.Len(t, east, dialRadius-1)
	for i, p := range east {
		assert.Equal(t, c.Y, p.Y)
		assert.Equal(t, c.X+2*(i+1), p.X)
	}

	north := arrowCells(c, motion.Overall{Angle: 0, Strength: 1})
	assert.Equal(t, image.Pt(c.X, c.Y-1), north[0])
}

func TestStrengthBar(t *testing.T) {
	assert.Equal(t, strings.Repeat(" ", barWidth), strengthBar(-1))
	assert.Equal(t, strings.Repeat("#", barWidth), strengthBar(3))
	assert.Equal(t, strings.Repeat("#", 5)+strings.Repeat(" ", 15), strengthBar(0.25))
}
