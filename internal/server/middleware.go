package server

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/google/uuid"
    "go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) setupMiddleware() {
    s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
        s.logger.Error("panic recovered",
            zap.Any("error", recovered),
            zap.String("path", c.Request.URL.Path),
            zap.String("request_id", c.GetString(requestIDHeader)),
        )
        c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
            "error":   "internal_error",
            "message": "An unexpected error occurred",
        })
    }))
    s.router.Use(s.metrics.Middleware())
    s.router.Use(requestIDMiddleware())
    s.router.Use(s.loggingMiddleware())
}

func requestIDMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        id := c.GetHeader(requestIDHeader)
        if id == "" { id = uuid.NewString() }
        c.Set(requestIDHeader, id)
        c.Header(requestIDHeader, id)
        c.Next()
    }
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        start := time.Now()
        path := c.Request.URL.Path

        c.Next()

        status := c.Writer.Status()
        fields := []zap.Field{
            zap.String("method", c.Request.Method),
            zap.String("path", path),
            zap.Int("status", status),
            zap.Duration("latency", time.Since(start)),
            zap.String("request_id", c.GetString(requestIDHeader)),
        }
        switch {
        case status >= 500:
            s.logger.Error("request completed", append(fields, zap.String("client_ip", c.ClientIP()))...)
        case status >= 400:
            s.logger.Warn("request completed", fields...)
        default:
            s.logger.Info("request completed", fields...)
        }
    }
}
