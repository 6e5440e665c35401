package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPSeconds       *prometheus.HistogramVec
	AddressMutations  *prometheus.CounterVec
	GeocodeRequests   *prometheus.CounterVec
	GeocodeSeconds    *prometheus.HistogramVec
	WebSocketClients  prometheus.Gauge
	BackupsTotal      *prometheus.CounterVec
	LastBackupSuccess prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addressbook_http_requests_total",
			Help: "Total number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "addressbook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		AddressMutations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addressbook_address_mutations_total",
			Help: "Committed address changes by kind.",
		}, []string{"kind"}),
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addressbook_geocode_requests_total",
			Help: "Geocode lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "addressbook_geocode_provider_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		WebSocketClients: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "addressbook_websocket_clients",
			Help: "Currently connected change-feed clients.",
		}),
		BackupsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "addressbook_backups_total",
			Help: "Scheduled backups by result.",
		}, []string{"result"}),
		LastBackupSuccess: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "addressbook_last_backup_success_timestamp_seconds",
			Help: "Unix time of the last successful backup.",
		}),
	}
}

// NewNop returns metrics registered on a throwaway registry.
func NewNop() *Metrics {
	return NewMetrics(prometheus.NewRegistry())
}
