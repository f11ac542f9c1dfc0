// Package metrics exposes cycle outcomes and the last observed player counts
// in Prometheus format. A nil *Metrics is valid and records nothing.
package metrics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EgorLis/bmpresence/internal/status"
)

const namespace = "bmpresence"

// Cycle outcomes used as the "outcome" label.
const (
	OutcomeOK        = "ok"
	OutcomeAPIError  = "api_error"
	OutcomeDataError = "data_error"
	OutcomeInitError = "init_error"
)

// Metrics bundles Prometheus collectors for the presence updater.
type Metrics struct {
	registry      *prometheus.Registry
	cyclesTotal   *prometheus.CounterVec
	publishErrors prometheus.Counter
	players       prometheus.Gauge
	maxPlayers    prometheus.Gauge
	joining       prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Update cycles by outcome",
		}, []string{"outcome"}),
		publishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Discord presence updates that failed",
		}),
		players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Players online at the last successful cycle",
		}),
		maxPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_players",
			Help:      "Server capacity at the last successful cycle",
		}),
		joining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "joining_players",
			Help:      "Players in the join queue at the last successful cycle",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last cycle that published player counts",
		}),
	}

	registry.MustRegister(
		m.cyclesTotal,
		m.publishErrors,
		m.players,
		m.maxPlayers,
		m.joining,
		m.lastSuccess,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCycle counts one finished cycle.
func (m *Metrics) ObserveCycle(outcome string) {
	if m == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(outcome).Inc()
}

// ObserveSnapshot records the counts of a successful cycle. Non-numeric
// counts leave the player gauges untouched.
func (m *Metrics) ObserveSnapshot(s status.Snapshot, at time.Time) {
	if m == nil {
		return
	}
	if p, mp, ok := s.Counts(); ok {
		m.players.Set(p)
		m.maxPlayers.Set(mp)
	}
	m.joining.Set(s.Joining)
	m.lastSuccess.Set(float64(at.Unix()))
}

// IncPublishErrors increments the failed presence update counter.
func (m *Metrics) IncPublishErrors() {
	if m == nil {
		return
	}
	m.publishErrors.Inc()
}

// NewServer wires /metrics and /healthz on addr. The caller runs and shuts it down.
func NewServer(addr string, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", healthz)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
