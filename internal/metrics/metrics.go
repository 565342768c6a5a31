package metrics

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	initOnce sync.Once

	httpRequestsTotal *prometheus.CounterVec
	uploadsTotal      prometheus.Counter
	uploadedBytes     prometheus.Counter
	emailSendsTotal   *prometheus.CounterVec
)

// InitMetrics registers the GoShare collectors. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goshare_http_requests_total",
			Help: "HTTP requests handled, by method, route and status.",
		}, []string{"method", "route", "status"})

		uploadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshare_uploads_total",
			Help: "Files accepted by the upload pipeline.",
		})

		uploadedBytes = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "goshare_uploaded_bytes_total",
			Help: "Total bytes accepted by the upload pipeline.",
		})

		emailSendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goshare_email_sends_total",
			Help: "Notification dispatch attempts, by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequestsTotal, uploadsTotal, uploadedBytes, emailSendsTotal)
	})
}

// Middleware counts requests per route and status.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// ObserveUpload records one accepted upload of the given size.
func ObserveUpload(sizeBytes int64) {
	uploadsTotal.Inc()
	uploadedBytes.Add(float64(sizeBytes))
}

// ObserveEmailSend records a notification dispatch outcome.
func ObserveEmailSend(outcome string) {
	emailSendsTotal.WithLabelValues(outcome).Inc()
}
