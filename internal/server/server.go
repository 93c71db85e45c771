// Package server is the browser and JSON front end of the scoring pipeline.
package server

import (
    "html/template"
    "net/http"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "frauddetect/internal/metrics"
    "frauddetect/internal/report"
    "frauddetect/internal/scoring"
    "frauddetect/internal/table"
)

// Theme holds the page's static look. It is fixed at startup.
type Theme struct {
    Title         string
    Subtitle      string
    Accent        string
    FraudColor    string
    NonFraudColor string
}

func DefaultTheme() Theme {
    return Theme{
        Title:         "Fraud Detection App",
        Subtitle:      "Upload a CSV of transactions to score every row for fraud.",
        Accent:        "#003F5C",
        FraudColor:    "#FF6361",
        NonFraudColor: "#58508D",
    }
}

type Options struct {
    PreviewRows    int
    UploadMaxBytes int64
    // ModelPath is checked by /health.
    ModelPath string
    ModelAlgo string
    Theme     Theme
}

type Server struct {
    router   *gin.Engine
    pipeline *scoring.Pipeline
    logger   *zap.Logger
    metrics  *metrics.Metrics
    opts     Options
}

func New(p *scoring.Pipeline, logger *zap.Logger, m *metrics.Metrics, opts Options) *Server {
    if logger == nil { logger = zap.NewNop() }
    if opts.PreviewRows <= 0 { opts.PreviewRows = 5 }
    if opts.UploadMaxBytes <= 0 { opts.UploadMaxBytes = 32 << 20 }
    if opts.Theme == (Theme{}) { opts.Theme = DefaultTheme() }

    s := &Server{pipeline: p, logger: logger, metrics: m, opts: opts}
    s.router = gin.New()
    s.router.SetHTMLTemplate(template.Must(template.New("index").Funcs(templateFuncs).Parse(indexHTML)))
    s.setupMiddleware()
    s.setupRoutes()
    return s
}

var templateFuncs = template.FuncMap{
    "count":   report.Count,
    "percent": report.Percent,
    "cell":    table.FormatCell,
    "css":     func(s string) template.CSS { return template.CSS(s) },
}

func (s *Server) setupRoutes() {
    s.router.GET("/", s.handleIndex)
    s.router.POST("/", s.handleUpload)

    api := s.router.Group("/api")
    api.POST("/predict", s.handlePredict)
    api.POST("/predict/csv", s.handlePredictCSV)
    api.GET("/chart.png", s.handleChart)

    s.router.GET("/health", s.handleHealth)
    if s.metrics != nil {
        s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
    }
}

// Router returns the gin router for testing.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) Handler() http.Handler { return s.router }
