package app

import (
	"time"

	"thunder.klederson.com/internal/lightning"
)

// TickMsg triggers a panel refresh.
type TickMsg time.Time

// EventMsg carries a sensor event from a source goroutine.
type EventMsg struct {
	Event lightning.Event
}
