package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Translation metrics
	translationCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habla_translation_cache_lookups_total",
		Help: "Total number of translation cache lookups",
	}, []string{"result"})

	translationProviderCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habla_translation_provider_calls_total",
		Help: "Total number of calls to the external translation provider",
	}, []string{"status"})

	translateLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "habla_translate_latency_seconds",
		Help:    "End-to-end latency of translate requests in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	// Conversation metrics
	chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habla_chat_requests_total",
		Help: "Total number of chat completion requests",
	}, []string{"status"})

	sttRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habla_stt_requests_total",
		Help: "Total number of speech-to-text requests",
	}, []string{"status"})

	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habla_tts_requests_total",
		Help: "Total number of text-to-speech requests",
	}, []string{"status"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "habla_active_sessions",
		Help: "Number of connected tutoring sessions",
	})
)

// RecordCacheLookup records a translation cache lookup, result is "hit" or "miss"
func RecordCacheLookup(result string) {
	translationCacheLookups.WithLabelValues(result).Inc()
}

// RecordProviderCall records a translation provider call, status is "ok" or "error"
func RecordProviderCall(status string) {
	translationProviderCalls.WithLabelValues(status).Inc()
}

// ObserveTranslateLatency records the duration of one translate request
func ObserveTranslateLatency(d time.Duration) {
	translateLatency.Observe(d.Seconds())
}

// RecordChatRequest records a chat completion request outcome
func RecordChatRequest(status string) {
	chatRequests.WithLabelValues(status).Inc()
}

// RecordSTTRequest records a speech-to-text request outcome
func RecordSTTRequest(status string) {
	sttRequests.WithLabelValues(status).Inc()
}

// RecordTTSRequest records a text-to-speech request outcome
func RecordTTSRequest(status string) {
	ttsRequests.WithLabelValues(status).Inc()
}

// SessionConnected increments the active session gauge
func SessionConnected() {
	activeSessions.Inc()
}

// SessionDisconnected decrements the active session gauge
func SessionDisconnected() {
	activeSessions.Dec()
}
