package lightning

import (
	"context"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"

	"thunder.klederson.com/internal/config"
)

// Sink receives events from a Source.
type Sink func(Event)

// Source produces sensor events until stopped.
type Source interface {
	Start(sink Sink) error
	Stop()
}

// MockSource generates a wandering storm for demo mode.
type MockSource struct {
	clock    clockwork.Clock
	interval time.Duration
	rng      *rand.Rand
	cancel   context.CancelFunc
	done     chan struct{}

	// bin index of the storm centre; drifts one step at a time
	centre int
}

// NewMockSource creates a mock source emitting one event per interval.
// A nil clock uses real time.
func NewMockSource(clock clockwork.Clock, interval time.Duration, seed int64) *MockSource {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	rng := rand.New(rand.NewSource(seed))
	return &MockSource{
		clock:    clock,
		interval: interval,
		rng:      rng,
		centre:   len(DistanceBins) - 2,
	}
}

// Start begins emitting events to sink on a background goroutine.
func (s *MockSource) Start(sink Sink) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, sink)
	return nil
}

func (s *MockSource) loop(ctx context.Context, sink Sink) {
	defer close(s.done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			sink(s.next())
		}
	}
}

// next picks the following event. Strikes drift towards and away from the
// station so the distance trend is visible.
func (s *MockSource) next() Event {
	now := s.clock.Now()

	r := s.rng.Float64()
	switch {
	case r < config.DemoStrikeChance:
		s.centre += s.rng.Intn(3) - 1
		if s.centre < 0 {
			s.centre = 0
		}
		if s.centre > len(DistanceBins)-1 {
			s.centre = len(DistanceBins) - 1
		}
		energy := uint32(s.rng.Intn(config.MaxStrikeEnergy + 1))
		return NewEvent(KindStrike, DistanceBins[s.centre], energy, now)
	case r < config.DemoStrikeChance+0.4:
		return NewEvent(KindDisturber, 0, 0, now)
	default:
		return NewEvent(KindNoise, 0, 0, now)
	}
}

// Stop halts the source and waits for its goroutine to exit.
func (s *MockSource) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}
