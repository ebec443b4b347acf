package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests       *prometheus.CounterVec
	CounterExportedPDFs   prometheus.Counter
	CounterRenderCacheHit prometheus.Counter
	CounterBackupExports  prometheus.Counter
	CounterBackupImports  *prometheus.CounterVec
	CounterSkippedImages  prometheus.Counter

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration prometheus.Histogram
	HistRenderDuration  prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("fitplan", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitplan", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterExportedPDFs := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "exported_pdfs",
		Help:      "The total number of plan PDFs handed out",
	})
	counterRenderCacheHit := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "render_cache_hits",
		Help:      "PDF requests served from the render cache",
	})
	counterBackupExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backup_exports",
		Help:      "The total number of backups exported",
	})
	counterBackupImports := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "backup_imports",
		Help:      "Backup import attempts by result",
	}, []string{"result"})
	counterSkippedImages := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "render_skipped_images",
		Help:      "Images left out of rendered PDFs because they could not be decoded",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})

	histReqDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets: []float64{
				0.0001, 0.0005, 0.001, 0.005, 0.01,
				0.05, 0.1, 0.5, 1, 5, 10,
			},
			Name: "request_duration_seconds",
			Help: "Total duration of requests in seconds",
		},
	)
	histRenderDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			Name:      "render_duration_seconds",
			Help:      "Time spent laying out a single plan PDF",
		},
	)

	return &Manager{
		CounterRequests:       counterRequests,
		CounterExportedPDFs:   counterExportedPDFs,
		CounterRenderCacheHit: counterRenderCacheHit,
		CounterBackupExports:  counterBackupExports,
		CounterBackupImports:  counterBackupImports,
		CounterSkippedImages:  counterSkippedImages,
		GaugeRequests:         gaugeRequests,
		HistRequestDuration:   histReqDuration,
		HistRenderDuration:    histRenderDuration,
	}
}
