// Package metrics exposes session activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chaz8081/engoctl/internal/ble"
	"github.com/chaz8081/engoctl/internal/ble/protocol"
)

// NewRegistry creates a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the HTTP handler serving reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// SessionMetrics counts frames and notifications of a ble.Session.
type SessionMetrics struct {
	FramesSent     *prometheus.CounterVec   // labels: opcode
	Notifications  *prometheus.CounterVec   // labels: result
	DecodeFailures *prometheus.CounterVec   // labels: opcode
	QueryDuration  *prometheus.HistogramVec // labels: opcode
}

// NewSessionMetrics registers and returns the session metrics.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	m := &SessionMetrics{
		FramesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engo_frames_sent_total",
			Help: "Command frames written to the glasses.",
		}, []string{"opcode"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engo_notifications_total",
			Help: "Notifications received from the glasses by outcome.",
		}, []string{"result"}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engo_decode_failures_total",
			Help: "Notifications whose payload failed to decode.",
		}, []string{"opcode"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "engo_query_duration_seconds",
			Help:    "Time from writing a query to receiving its response.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"opcode"}),
	}
	reg.MustRegister(m.FramesSent, m.Notifications, m.DecodeFailures, m.QueryDuration)
	return m
}

var _ ble.Observer = (*SessionMetrics)(nil)

func (m *SessionMetrics) FrameSent(opcode byte) {
	m.FramesSent.WithLabelValues(protocol.OpcodeName(opcode)).Inc()
}

func (m *SessionMetrics) NotificationReceived(result string) {
	m.Notifications.WithLabelValues(result).Inc()
}

func (m *SessionMetrics) DecodeFailed(opcode byte) {
	m.DecodeFailures.WithLabelValues(protocol.OpcodeName(opcode)).Inc()
}

func (m *SessionMetrics) QueryCompleted(opcode byte, elapsed time.Duration) {
	m.QueryDuration.WithLabelValues(protocol.OpcodeName(opcode)).Observe(elapsed.Seconds())
}
