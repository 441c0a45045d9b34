package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "voicebridge_sessions_active",
			Help: "Number of call sessions currently bridged",
		},
	)

	sessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicebridge_sessions_total",
			Help: "Total number of call sessions by close reason",
		},
		[]string{"reason"},
	)

	framesRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicebridge_audio_frames_total",
			Help: "Audio frames relayed between legs",
		},
		[]string{"direction"},
	)

	framesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicebridge_audio_frames_dropped_total",
			Help: "Audio frames dropped because the destination leg was not ready",
		},
		[]string{"direction"},
	)

	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voicebridge_tool_calls_total",
			Help: "Agent tool invocations by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)
)

// Audio relay directions.
const (
	DirectionToAgent     = "to_agent"
	DirectionToTelephony = "to_telephony"
)

// RegisterMetrics registers the bridge collectors with r.
func RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(activeSessions, sessionsTotal, framesRelayed, framesDropped, toolCalls)
}

// MetricsHandler serves the bridge collectors plus Go runtime and process
// metrics from a dedicated registry.
func MetricsHandler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	RegisterMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// SessionOpened increments the active session gauge.
func SessionOpened() { activeSessions.Inc() }

// SessionClosed decrements the active session gauge and records why it ended.
func SessionClosed(reason string) {
	activeSessions.Dec()
	sessionsTotal.WithLabelValues(reason).Inc()
}

func FrameRelayed(direction string) { framesRelayed.WithLabelValues(direction).Inc() }

func FrameDropped(direction string) { framesDropped.WithLabelValues(direction).Inc() }

// ToolCallFinished records the outcome of one tool invocation.
func ToolCallFinished(tool string, isError bool) {
	outcome := "ok"
	if isError {
		outcome = "error"
	}
	toolCalls.WithLabelValues(tool, outcome).Inc()
}
