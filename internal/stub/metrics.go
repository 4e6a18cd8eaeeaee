package stub

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// requestDuration наблюдает длительность обработки запросов заглушки.
var requestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "poikatsu_stub_request_duration_seconds",
		Help:    "Duration of stub backend requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	},
	[]string{"method", "status"},
)

// observeRequest записывает наблюдение длительности одного запроса.
func observeRequest(method string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
