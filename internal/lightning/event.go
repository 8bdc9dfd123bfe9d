// Package lightning tracks the events reported by an AS3935 lightning sensor
// and provides simulated event sources for demos and the panel's T key.
package lightning

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"thunder.klederson.com/internal/config"
)

// EventKind is the interrupt source reported by the sensor.
type EventKind int

const (
	KindStrike EventKind = iota
	KindDisturber
	KindNoise
)

func (k EventKind) String() string {
	switch k {
	case KindStrike:
		return "strike"
	case KindDisturber:
		return "disturber"
	case KindNoise:
		return "noise"
	}
	return "unknown"
}

// Event is one sensor interrupt. Distance and Energy are only meaningful for strikes.
type Event struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"-"`
	KindName   string    `json:"kind"`
	Distance   uint32    `json:"distance_km"`
	Energy     uint32    `json:"energy"`
	DetectedAt time.Time `json:"detected_at"`
}

// NewEvent stamps an event with a fresh ID.
func NewEvent(kind EventKind, distance, energy uint32, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		KindName:   kind.String(),
		Distance:   distance,
		Energy:     energy,
		DetectedAt: at,
	}
}

// DistanceBins are the distance estimates the AS3935 can report, in km.
var DistanceBins = []uint32{1, 5, 6, 8, 10, 12, 14, 17, 20, 24, 27, 31, 34, 37, 40, config.OutOfRangeKm}

// SimulatedStrike builds a plausible strike event.
func SimulatedStrike(at time.Time) Event {
	return NewEvent(KindStrike,
		DistanceBins[rand.Intn(len(DistanceBins))],
		uint32(rand.Intn(config.MaxStrikeEnergy+1)),
		at)
}
