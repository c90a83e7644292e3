package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the command boundary.
type Metrics struct {
	CommandsTotal      *prometheus.CounterVec
	FailuresTotal      *prometheus.CounterVec
	IncidentsTotal     *prometheus.CounterVec
	IncidentsPublished *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
}

// New registers the metrics with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_commands_total",
			Help: "Commands executed, by action and response status",
		}, []string{"action", "status"}),
		FailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_failures_total",
			Help: "Failures returned to callers, by code and kind",
		}, []string{"code", "kind"}),
		IncidentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_incidents_total",
			Help: "Incidents raised, by level",
		}, []string{"level"}),
		IncidentsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_incidents_published_total",
			Help: "Incident publications to the bus, by outcome",
		}, []string{"outcome"}),
		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dossier_command_duration_seconds",
			Help:    "Duration of command execution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"action"}),
	}
}

func (m *Metrics) IncrementCommand(action, status string) {
	m.CommandsTotal.WithLabelValues(action, status).Inc()
}

func (m *Metrics) IncrementFailure(code, kind string) {
	m.FailuresTotal.WithLabelValues(code, kind).Inc()
}

func (m *Metrics) IncrementIncident(level string) {
	m.IncidentsTotal.WithLabelValues(level).Inc()
}

func (m *Metrics) IncrementIncidentPublished(outcome string) {
	m.IncidentsPublished.WithLabelValues(outcome).Inc()
}

// ObserveCommand records the duration of a command.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCommand(action string, start time.Time) {
	m.CommandDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
