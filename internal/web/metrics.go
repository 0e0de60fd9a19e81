package web

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	EntriesInserted prometheus.Counter
	SourceErrors    *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		EntriesInserted: f.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_wwlog_entries_inserted_total",
			Help: "Whitewater log entries stored through the form.",
		}),
		SourceErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_wwlog_source_errors_total",
			Help: "Failed reads and writes against the whitewater log data source.",
		}, []string{"op"}),
	}
}

func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Requests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
