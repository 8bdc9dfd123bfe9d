package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/panel"
	"thunder.klederson.com/internal/station"
)

func newTestModel(layout panel.Layout) (AppModel, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2020, 6, 12, 18, 0, 0, 0, time.UTC))
	st := station.New(clock, panel.ModeSummer, 30*time.Minute)
	return New(st, layout, panel.BuildInfo{SensorModel: "AS3935"}, nil), clock
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestView_BeforeSize(t *testing.T) {
	m, _ := newTestModel(panel.LayoutFull)
	assert.Equal(t, "Initializing Thunder panel...", m.View())
}

func TestView_RendersPanel(t *testing.T) {
	m, _ := newTestModel(panel.LayoutFull)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Thunder V1.0")
	assert.Contains(t, view, "MODE:")
	assert.Contains(t, view, "---")
	assert.Contains(t, view, "[CLEAR]")
	assert.Contains(t, view, "Layout: full")
}

func TestUpdate_Keys(t *testing.T) {
	m, _ := newTestModel(panel.LayoutFull)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	m, _ = update(t, m, key('t'))
	m, _ = update(t, m, key('T'))
	assert.Equal(t, uint32(2), m.stats.Strikes)
	assert.True(t, m.stats.Active)
	assert.Contains(t, m.View(), "[STORM]")

	m, _ = update(t, m, key('w'))
	assert.Equal(t, panel.ModeWinter, m.shared.station.Mode())
	assert.Contains(t, m.View(), "WINTER")

	m, _ = update(t, m, key('r'))
	assert.Zero(t, m.stats.Strikes)

	m, _ = update(t, m, key('x'))
	assert.Zero(t, m.stats.Strikes)
}

func TestUpdate_Quit(t *testing.T) {
	m, _ := newTestModel(panel.LayoutFull)
	_, cmd := update(t, m, key('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_EventAndTick(t *testing.T) {
	m, clock := newTestModel(panel.LayoutCompact)

	m, _ = update(t, m, EventMsg{Event: lightning.NewEvent(lightning.KindStrike, 12, 340000, clock.Now())})
	assert.Equal(t, uint32(1), m.stats.Strikes)
	assert.Equal(t, []float64{12}, m.stats.Distances)

	clock.Advance(31 * time.Minute)
	m, cmd := update(t, m, TickMsg(clock.Now()))
	assert.NotNil(t, cmd)
	assert.False(t, m.stats.Active)
	assert.Equal(t, uint32(31), m.stats.MinutesSinceLastStrike)
}

func TestStartSource_NilSource(t *testing.T) {
	m, _ := newTestModel(panel.LayoutFull)
	assert.NoError(t, m.StartSource(nil))
	m.StopSource()
}

func TestView_PaintsOnlyInUpdate(t *testing.T) {
	m, clock := newTestModel(panel.LayoutFull)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, " STK: ---", m.shared.screen.Line(11))

	m.shared.station.Record(lightning.NewEvent(lightning.KindStrike, 12, 340000, clock.Now()))
	_ = m.View()
	assert.Equal(t, " STK: ---", m.shared.screen.Line(11))

	m, _ = update(t, m, TickMsg(clock.Now()))
	assert.Equal(t, " STK: 1", m.shared.screen.Line(11))
	assert.Equal(t, " DST: 12 km", m.shared.screen.Line(13))
}
