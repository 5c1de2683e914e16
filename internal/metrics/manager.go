package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "coach"

type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterLogs               *prometheus.CounterVec
	CounterCoachReplies       *prometheus.CounterVec
	CounterAuthEvents         *prometheus.CounterVec
	CounterSummaries          *prometheus.CounterVec

	// gauges
	GaugeChatFeeds prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistCoachDuration   prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager(Namespace, "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager(Namespace, "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterLogs := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "logs_submitted",
		Help:      "The total number of submitted logs",
	}, []string{"type"})
	counterCoachReplies := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "coach_replies",
		Help:      "Coach replies by outcome",
	}, []string{"outcome"})
	counterAuthEvents := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "auth_events",
		Help:      "Auth state changes by event",
	}, []string{"event"})
	counterSummaries := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "summaries_generated",
		Help:      "Generated progress summaries by scope",
	}, []string{"scope"})

	gaugeChatFeeds := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "chat_feeds",
		Help:      "Current number of open chat message feeds",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01,
				0.05, 0.1, 0.5, 1, 5, 10, 60,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)
	histCoachDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
			Name:      "coach_duration_seconds",
			Help:      "Duration of a single chat completion call in seconds",
		},
	)

	return &Manager{
		CounterRequests:           counterRequests,
		CounterHandleRequestPanic: counterHandleRequestPanic,
		CounterLogs:               counterLogs,
		CounterCoachReplies:       counterCoachReplies,
		CounterAuthEvents:         counterAuthEvents,
		CounterSummaries:          counterSummaries,
		GaugeChatFeeds:            gaugeChatFeeds,
		HistRequestDuration:       histReqDuration,
		HistCoachDuration:         histCoachDuration,
	}
}
