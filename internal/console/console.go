// Package console drives the front panel over a serial link: it repaints the
// screen, refreshes the report periodically and handles the panel keys.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.bug.st/serial"

	"thunder.klederson.com/internal/observability"
	"thunder.klederson.com/internal/panel"
	"thunder.klederson.com/internal/station"
	"thunder.klederson.com/internal/vt100"
)

// OpenPort opens a serial port at baud, 8N1.
func OpenPort(name string, baud int) (serial.Port, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", name, err)
	}
	return port, nil
}

// Options configures a Console.
type Options struct {
	Port    string // reported on /readyz
	Layout  panel.Layout
	Build   panel.BuildInfo
	Refresh time.Duration
	Clock   clockwork.Clock
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Console owns one terminal. Only the Run goroutine writes to it.
type Console struct {
	port     io.ReadWriter
	term     *vt100.Writer
	renderer *panel.Renderer
	station  *station.Station
	clock    clockwork.Clock
	refresh  time.Duration
	logger   *slog.Logger
	metrics  *observability.Metrics

	// last reading on screen; owned by the Run goroutine
	painted panel.Reading

	mu     sync.Mutex
	status observability.PanelStatus
}

// New creates a console rendering st onto port.
func New(port io.ReadWriter, st *station.Station, opts Options) *Console {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	term := vt100.NewWriter(port)
	return &Console{
		port:     port,
		term:     term,
		renderer: panel.NewRenderer(term, opts.Layout, opts.Build),
		station:  st,
		clock:    opts.Clock,
		refresh:  opts.Refresh,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		status:   observability.PanelStatus{Port: opts.Port, Layout: opts.Layout.Name},
	}
}

// Run paints the panel and keeps it current until ctx is cancelled.
// It returns an error only when writing to the terminal fails.
func (c *Console) Run(ctx context.Context) error {
	keys := make(chan byte, 16)
	go c.readKeys(ctx, keys)

	ticker := c.clock.NewTicker(c.refresh)
	defer ticker.Stop()

	if err := c.redraw(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.term.CursorOn()
			return nil

		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			if err := c.handleKey(k); err != nil {
				return err
			}

		case <-ticker.Chan():
			if err := c.report(); err != nil {
				return err
			}
		}
	}
}

// PanelStatus reports the link state for /readyz.
func (c *Console) PanelStatus() observability.PanelStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Console) handleKey(k byte) error {
	cmd := station.ParseKey(k)
	if cmd == station.CmdNone {
		return nil
	}
	c.metrics.KeyCommands.WithLabelValues(cmd.String()).Inc()
	c.logger.Info("panel key", "command", cmd.String())

	if c.station.Apply(cmd) {
		return c.redraw()
	}
	return c.report()
}

func (c *Console) redraw() error {
	return c.repaint(c.station.Reading(), c.station.Mode())
}

func (c *Console) repaint(rd panel.Reading, mode panel.Mode) error {
	c.renderer.Redraw(rd, mode)
	c.painted = rd
	c.metrics.Redraws.Inc()
	c.metrics.ObserveReading(rd, mode)
	return c.check()
}

// report refreshes the strike fields. Layouts that do not erase a field
// before printing it get a full repaint instead whenever the reading
// changed, or a shorter value would leave the tail of the old one behind.
func (c *Console) report() error {
	rd, mode := c.station.Reading(), c.station.Mode()
	if rd != c.painted && !c.renderer.Layout().ClearFields {
		return c.repaint(rd, mode)
	}

	c.renderer.PrintReport(rd, mode)
	c.painted = rd
	c.metrics.Reports.Inc()
	c.metrics.ObserveReading(rd, mode)
	return c.check()
}

func (c *Console) check() error {
	err := c.term.Err()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.status.Err = err
		return fmt.Errorf("write panel: %w", err)
	}
	c.status.Paints++
	c.status.LastPaint = c.clock.Now()
	return nil
}

// readKeys forwards bytes typed on the terminal until the port fails or
// ctx is done. keys is closed on return.
func (c *Console) readKeys(ctx context.Context, keys chan<- byte) {
	defer close(keys)

	buf := make([]byte, 16)
	for {
		n, err := c.port.Read(buf)
		for _, b := range buf[:n] {
			select {
			case keys <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				c.logger.Warn("serial read failed, keys disabled", "error", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}
