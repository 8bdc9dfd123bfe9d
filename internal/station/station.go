// Package station holds the host-side state behind the front panel: the
// strike tracker, the calibration mode and the panel key commands.
package station

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/panel"
)

// Command is an action requested from the panel keyboard.
type Command int

const (
	CmdNone Command = iota
	CmdThunder
	CmdReset
	CmdToggleMode
	CmdRedraw
)

func (c Command) String() string {
	switch c {
	case CmdThunder:
		return "thunder"
	case CmdReset:
		return "reset"
	case CmdToggleMode:
		return "toggle-mode"
	case CmdRedraw:
		return "redraw"
	}
	return "none"
}

// ParseKey maps a key byte received from the terminal to a command.
func ParseKey(b byte) Command {
	switch b {
	case 't', 'T':
		return CmdThunder
	case 'r', 'R':
		return CmdReset
	case 'w', 'W':
		return CmdToggleMode
	case 0x0c: // Ctrl-L
		return CmdRedraw
	}
	return CmdNone
}

// Hook is called for every recorded event, after the tracker is updated.
type Hook func(lightning.Event)

// Station is safe for concurrent use.
type Station struct {
	mu           sync.Mutex
	clock        clockwork.Clock
	tracker      *lightning.Tracker
	mode         panel.Mode
	stormTimeout time.Duration
	hooks        []Hook
}

// New creates a station. A nil clock uses real time.
func New(clock clockwork.Clock, mode panel.Mode, stormTimeout time.Duration) *Station {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Station{
		clock:        clock,
		tracker:      lightning.NewTracker(clock),
		mode:         mode,
		stormTimeout: stormTimeout,
	}
}

// OnEvent registers a hook. Hooks must not block.
func (s *Station) OnEvent(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// Record feeds an event to the tracker and the hooks.
func (s *Station) Record(ev lightning.Event) {
	s.tracker.Record(ev)

	s.mu.Lock()
	hooks := append([]Hook(nil), s.hooks...)
	s.mu.Unlock()

	for _, h := range hooks {
		h(ev)
	}
}

// Apply executes a command. It reports whether the whole screen must be
// repainted rather than just the report.
func (s *Station) Apply(cmd Command) bool {
	switch cmd {
	case CmdThunder:
		s.Record(lightning.SimulatedStrike(s.clock.Now()))
	case CmdReset:
		s.tracker.Reset()
		return true
	case CmdToggleMode:
		s.mu.Lock()
		s.mode = s.mode.Toggle()
		s.mu.Unlock()
	case CmdRedraw:
		return true
	}
	return false
}

// Mode returns the current calibration mode.
func (s *Station) Mode() panel.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Stats returns the full tracker snapshot.
func (s *Station) Stats() lightning.Stats {
	return s.tracker.Snapshot(s.stormTimeout)
}

// Reading returns the values the panel report shows.
func (s *Station) Reading() panel.Reading {
	return ReadingFrom(s.Stats())
}

// ReadingFrom converts tracker stats to a panel reading.
func ReadingFrom(st lightning.Stats) panel.Reading {
	return panel.Reading{
		Active:                 st.Active,
		Strikes:                st.Strikes,
		Distance:               st.Distance,
		Energy:                 st.Energy,
		MinutesSinceLastStrike: st.MinutesSinceLastStrike,
	}
}
