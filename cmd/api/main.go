package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "frauddetect/internal/config"
    "frauddetect/internal/metrics"
    "frauddetect/internal/oracle"
    "frauddetect/internal/scoring"
    "frauddetect/internal/server"
    "frauddetect/pkg/utils"
)

func main() {
    cfg, err := config.Load()
    if err != nil { fmt.Fprintln(os.Stderr, err); os.Exit(2) }

    logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
    if err != nil { fmt.Fprintln(os.Stderr, err); os.Exit(2) }
    utils.SetLogger(logger)
    defer logger.Sync()

    if cfg.GinMode != "" { gin.SetMode(cfg.GinMode) }

    var loader oracle.Loader
    files := &oracle.FileLoader{Algo: cfg.ModelAlgo, Path: cfg.ModelPath, Options: cfg.ModelOptions()}
    loader = files
    if cfg.ModelCache { loader = oracle.NewCachedLoader(files) }
    if _, err := os.Stat(cfg.ModelPath); err != nil {
        logger.Warn("model artifact not found, uploads will fail until it exists",
            zap.String("path", cfg.ModelPath), zap.Error(err))
    }

    m := metrics.New()
    p := scoring.New(loader, logger, m)
    srv := server.New(p, logger, m, server.Options{
        PreviewRows:    cfg.PreviewRows,
        UploadMaxBytes: cfg.UploadMaxBytes,
        ModelPath:      cfg.ModelPath,
        ModelAlgo:      cfg.ModelAlgo,
        Theme:          server.DefaultTheme(),
    })

    httpSrv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           srv.Handler(),
        ReadHeaderTimeout: 10 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    go func() {
        logger.Info("listening",
            zap.String("addr", httpSrv.Addr),
            zap.String("model_algo", cfg.ModelAlgo),
            zap.String("model_path", cfg.ModelPath),
            zap.Bool("model_cache", cfg.ModelCache),
        )
        if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Fatal("server failed", zap.Error(err))
        }
    }()

    <-ctx.Done()
    logger.Info("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()
    if err := httpSrv.Shutdown(shutdownCtx); err != nil {
        logger.Error("shutdown", zap.Error(err))
    }
}
