// Package metrics provides Prometheus instrumentation for the scoring service.
package metrics

import (
    "net/http"
    "strconv"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promauto"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "frauddetect"

// Metrics owns a private registry so tests can build as many as they need.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
    Registry *prometheus.Registry

    // UploadsTotal counts scoring passes by outcome ("scored" or an error kind).
    UploadsTotal *prometheus.CounterVec
    // RowsScoredTotal counts scored rows by predicted label.
    RowsScoredTotal *prometheus.CounterVec
    ScoringDuration prometheus.Histogram
    HTTPRequestsTotal *prometheus.CounterVec
}

func New() *Metrics {
    reg := prometheus.NewRegistry()
    reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    f := promauto.With(reg)
    return &Metrics{
        Registry: reg,
        UploadsTotal: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "uploads_total",
            Help:      "Uploads processed, by outcome.",
        }, []string{"outcome"}),
        RowsScoredTotal: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "rows_scored_total",
            Help:      "Rows scored, by predicted label.",
        }, []string{"label"}),
        ScoringDuration: f.NewHistogram(prometheus.HistogramOpts{
            Namespace: namespace,
            Name:      "scoring_duration_seconds",
            Help:      "Time spent in the classifier per upload.",
            Buckets:   prometheus.DefBuckets,
        }),
        HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
            Namespace: namespace,
            Name:      "http_requests_total",
            Help:      "HTTP requests by method, route and status code.",
        }, []string{"method", "path", "status"}),
    }
}

func (m *Metrics) ObserveScored(fraud, nonFraud int, d time.Duration) {
    if m == nil { return }
    m.UploadsTotal.WithLabelValues("scored").Inc()
    m.RowsScoredTotal.WithLabelValues("fraud").Add(float64(fraud))
    m.RowsScoredTotal.WithLabelValues("non_fraud").Add(float64(nonFraud))
    m.ScoringDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveHalted(kind string) {
    if m == nil { return }
    m.UploadsTotal.WithLabelValues(kind).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
    return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware counts requests by route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        c.Next()
        if m == nil { return }
        path := c.FullPath()
        if path == "" { path = "unmatched" }
        m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
    }
}
