package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ReportsReceived *prometheus.CounterVec
	HazardsRecorded *prometheus.CounterVec
	ReportsResolved *prometheus.CounterVec
	APIErrors       prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	ActiveWorkers   prometheus.Gauge
	EventsPublished *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ReportsReceived: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hazardmap_reports_received_total",
			Help: "Total number of hazard reports received, by kind and outcome status.",
		}, []string{"kind", "status"}),
		HazardsRecorded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hazardmap_hazard_observations_total",
			Help: "Total number of observations folded into hazard records.",
		}, []string{"kind"}),
		ReportsResolved: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hazardmap_reports_geocoded_total",
			Help: "Total number of pending reports processed by the geocoding resolver.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hazardmap_provider_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hazardmap_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hazardmap_active_workers",
			Help: "Current number of active workers geocoding pending reports.",
		}),
		EventsPublished: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hazardmap_events_published_total",
			Help: "Total number of hazard update events handed to the publisher.",
		}, []string{"status"}),
		HTTPDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hazardmap_http_request_duration_seconds",
			Help:    "Duration of HTTP API requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}
