package lightning

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"thunder.klederson.com/internal/config"
)

// Stats is a point-in-time view of the tracker.
type Stats struct {
	Active                 bool
	Strikes                uint32
	Disturbers             uint32
	Noise                  uint32
	Distance               uint32
	Energy                 uint32
	MinutesSinceLastStrike uint32
	LastStrike             time.Time
	Distances              []float64 // recent strike distances, oldest first
}

// Tracker accumulates sensor events. It is safe for concurrent use.
type Tracker struct {
	mu    sync.RWMutex
	clock clockwork.Clock

	strikes    uint32
	disturbers uint32
	noise      uint32
	distance   uint32
	energy     uint32
	lastStrike time.Time
	history    *History
}

// NewTracker creates an empty tracker. A nil clock uses real time.
func NewTracker(clock clockwork.Clock) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		clock:   clock,
		history: NewHistory(config.HistorySize),
	}
}

// Record counts an event. Strikes also update distance, energy and the
// time of the last strike.
func (t *Tracker) Record(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case KindStrike:
		t.strikes++
		t.distance = ev.Distance
		t.energy = ev.Energy
		t.lastStrike = t.clock.Now()
		t.history.Push(float64(ev.Distance))
	case KindDisturber:
		t.disturbers++
	case KindNoise:
		t.noise++
	}
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.strikes, t.disturbers, t.noise = 0, 0, 0
	t.distance, t.energy = 0, 0
	t.lastStrike = time.Time{}
	t.history.Clear()
}

// Snapshot reports the current state. The storm is active while the last
// strike is younger than stormTimeout.
func (t *Tracker) Snapshot(stormTimeout time.Duration) Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Stats{
		Strikes:    t.strikes,
		Disturbers: t.disturbers,
		Noise:      t.noise,
		Distance:   t.distance,
		Energy:     t.energy,
		LastStrike: t.lastStrike,
		Distances:  t.history.Values(),
	}
	if t.strikes == 0 {
		return s
	}

	since := t.clock.Since(t.lastStrike)
	if since < 0 {
		since = 0
	}
	s.MinutesSinceLastStrike = uint32(since / time.Minute)
	s.Active = since < stormTimeout
	return s
}
