package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"thunder.klederson.com/internal/lightning"
	"thunder.klederson.com/internal/panel"
)

// Metrics holds the Prometheus collectors for the panel service.
type Metrics struct {
	Events             *prometheus.CounterVec // labels: kind={strike,disturber,noise}
	LastDistance       prometheus.Gauge
	LastEnergy         prometheus.Gauge
	ThunderstormActive prometheus.Gauge
	WinterMode         prometheus.Gauge

	Redraws        prometheus.Counter
	Reports        prometheus.Counter
	KeyCommands    *prometheus.CounterVec // labels: command
	PublishErrors  prometheus.Counter
	PublishDropped prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thunder",
			Name:      "sensor_events_total",
			Help:      "Sensor interrupts by kind.",
		}, []string{"kind"}),
		LastDistance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thunder",
			Name:      "last_strike_distance_km",
			Help:      "Estimated distance of the most recent strike.",
		}),
		LastEnergy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thunder",
			Name:      "last_strike_energy",
			Help:      "Raw energy value of the most recent strike.",
		}),
		ThunderstormActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thunder",
			Name:      "thunderstorm_active",
			Help:      "1 while a thunderstorm is in progress, 0 otherwise.",
		}),
		WinterMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thunder",
			Name:      "winter_mode",
			Help:      "1 when the sensor runs in winter mode, 0 in summer mode.",
		}),
		Redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thunder",
			Name:      "panel_redraws_total",
			Help:      "Full screen repaints written to the terminal.",
		}),
		Reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thunder",
			Name:      "panel_reports_total",
			Help:      "Report refreshes written to the terminal.",
		}),
		KeyCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thunder",
			Name:      "key_commands_total",
			Help:      "Panel key commands received, by command.",
		}, []string{"command"}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thunder",
			Name:      "publish_errors_total",
			Help:      "Event batches that failed to publish.",
		}),
		PublishDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thunder",
			Name:      "publish_dropped_total",
			Help:      "Events dropped because the publish queue was full.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Events,
		m.LastDistance,
		m.LastEnergy,
		m.ThunderstormActive,
		m.WinterMode,
		m.Redraws,
		m.Reports,
		m.KeyCommands,
		m.PublishErrors,
		m.PublishDropped,
	}
}

// ObserveEvent records a sensor event.
func (m *Metrics) ObserveEvent(ev lightning.Event) {
	m.Events.WithLabelValues(ev.Kind.String()).Inc()
	if ev.Kind == lightning.KindStrike {
		m.LastDistance.Set(float64(ev.Distance))
		m.LastEnergy.Set(float64(ev.Energy))
	}
}

// ObserveReading records the state shown on the panel.
func (m *Metrics) ObserveReading(rd panel.Reading, mode panel.Mode) {
	m.ThunderstormActive.Set(boolToFloat(rd.Active))
	m.WinterMode.Set(boolToFloat(mode == panel.ModeWinter))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
