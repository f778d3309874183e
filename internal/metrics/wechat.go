package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Provider-call Prometheus metrics. Standalone package to avoid import cycles
// between the provider client and the HTTP packages.

var (
	ProviderCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wego_provider_requests_total",
		Help: "Requests emitidos contra la API del proveedor",
	}, []string{"endpoint", "result"})

	ProviderLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wego_provider_request_duration_ms",
		Help:    "Latencia de llamadas al proveedor en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})

	TokenRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wego_token_refreshes_total",
		Help: "Refreshes de access token por resultado",
	}, []string{"result"})

	ProfileCacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wego_profile_cache_total",
		Help: "Hits y misses del cache de perfil",
	}, []string{"result"})
)

// ObserveProviderCall registra una llamada al proveedor.
func ObserveProviderCall(endpoint string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	ProviderCalls.WithLabelValues(endpoint, result).Inc()
	ProviderLatency.Observe(float64(d.Milliseconds()))
}

// Register registra las métricas en el registry dado (o el default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		ProviderCalls,
		ProviderLatency,
		TokenRefreshes,
		ProfileCacheHits,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
