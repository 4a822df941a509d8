package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddrive_api_requests_total",
		Help: "Total number of backend API requests issued by the agent.",
	}, []string{"method", "endpoint", "status"})

	realtimeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddrive_realtime_events_total",
		Help: "Total number of realtime events received, by event kind.",
	}, []string{"event"})

	realtimeConnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clouddrive_realtime_connects_total",
		Help: "Total number of realtime channel connections established.",
	})

	realtimeDisconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clouddrive_realtime_disconnects_total",
		Help: "Total number of realtime channel teardowns.",
	})

	cacheInvalidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clouddrive_cache_invalidations_total",
		Help: "Total number of cache group invalidations.",
	}, []string{"group"})
)

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func CountAPIRequest(method, endpoint string, status int) {
	apiRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
}

func CountRealtimeEvent(event string) {
	realtimeEventsTotal.WithLabelValues(event).Inc()
}

func CountRealtimeConnect() {
	realtimeConnectsTotal.Inc()
}

func CountRealtimeDisconnect() {
	realtimeDisconnectsTotal.Inc()
}

func CountCacheInvalidation(group string) {
	cacheInvalidationsTotal.WithLabelValues(group).Inc()
}
