package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LookupsTotal    *prometheus.CounterVec
	APIErrors       prometheus.Counter
	RequestSeconds  *prometheus.HistogramVec
	InflightLookups prometheus.Gauge
	GroupsTotal     prometheus.Counter
	CacheEntries    prometheus.Gauge
	RunsTotal       *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LookupsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pakketpunt_geocode_lookups_total",
			Help: "Total number of address lookups by outcome.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pakketpunt_geocode_provider_errors_total",
			Help: "Total number of errors received from the geocoding provider.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pakketpunt_geocode_provider_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		InflightLookups: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "pakketpunt_geocode_inflight_lookups",
			Help: "Current number of lookups waiting on the provider.",
		}),
		GroupsTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "pakketpunt_geocode_groups_total",
			Help: "Total number of lookup groups processed.",
		}),
		CacheEntries: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "pakketpunt_geocode_cache_entries",
			Help: "Number of package points with resolved coordinates.",
		}),
		RunsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "pakketpunt_geocode_runs_total",
			Help: "Total number of resolver runs by result.",
		}, []string{"result"}),
	}
}
