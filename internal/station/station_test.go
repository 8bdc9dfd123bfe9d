package station

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/panel"
)

func newTestStation() (*Station, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(time.Date(2020, 6, 12, 18, 0, 0, 0, time.UTC))
	return New(clock, panel.ModeSummer, 30*time.Minute), clock
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		key  byte
		want Command
	}{
		{'t', CmdThunder},
		{'T', CmdThunder},
		{'r', CmdReset},
		{'R', CmdReset},
		{'w', CmdToggleMode},
		{'W', CmdToggleMode},
		{0x0c, CmdRedraw},
		{'x', CmdNone},
		{'\r', CmdNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseKey(tt.key), "key %q", tt.key)
	}
}

func TestApply_Thunder(t *testing.T) {
	s, _ := newTestStation()

	var seen []lightning.Event
	s.OnEvent(func(ev lightning.Event) { seen = append(seen, ev) })

	assert.False(t, s.Apply(CmdThunder))
	assert.False(t, s.Apply(CmdThunder))

	require.Len(t, seen, 2)
	rd := s.Reading()
	assert.True(t, rd.Active)
	assert.Equal(t, uint32(2), rd.Strikes)
	assert.Equal(t, seen[1].Distance, rd.Distance)
	assert.Equal(t, seen[1].Energy, rd.Energy)
	assert.Zero(t, rd.MinutesSinceLastStrike)
}

func TestApply_ResetRequestsRedraw(t *testing.T) {
	s, _ := newTestStation()
	s.Apply(CmdThunder)

	assert.True(t, s.Apply(CmdReset))
	assert.Equal(t, panel.Reading{}, s.Reading())
}

func TestApply_ToggleMode(t *testing.T) {
	s, _ := newTestStation()
	assert.Equal(t, panel.ModeSummer, s.Mode())

	assert.False(t, s.Apply(CmdToggleMode))
	assert.Equal(t, panel.ModeWinter, s.Mode())

	s.Apply(CmdToggleMode)
	assert.Equal(t, panel.ModeSummer, s.Mode())
}

func TestApply_RedrawAndNone(t *testing.T) {
	s, _ := newTestStation()
	assert.True(t, s.Apply(CmdRedraw))
	assert.False(t, s.Apply(CmdNone))
}

func TestReading_MinutesAndTimeout(t *testing.T) {
	s, clock := newTestStation()
	s.Record(lightning.NewEvent(lightning.KindStrike, 12, 340000, clock.Now()))

	clock.Advance(3 * time.Minute)
	assert.Equal(t, panel.Reading{
		Active:                 true,
		Strikes:                1,
		Distance:               12,
		Energy:                 340000,
		MinutesSinceLastStrike: 3,
	}, s.Reading())

	clock.Advance(time.Hour)
	assert.False(t, s.Reading().Active)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "thunder", CmdThunder.String())
	assert.Equal(t, "reset", CmdReset.String())
	assert.Equal(t, "toggle-mode", CmdToggleMode.String())
	assert.Equal(t, "redraw", CmdRedraw.String())
	assert.Equal(t, "none", CmdNone.String())
}
