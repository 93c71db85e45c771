package utils

import (
    "os"
    "path/filepath"
    "sync"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

var (
    logger *zap.Logger
    mu     sync.Mutex
)

// NewLogger builds a JSON logger on stdout. When logFile is set the same
// entries are also appended to that file.
func NewLogger(level, logFile string) (*zap.Logger, error) {
    lvl := zapcore.InfoLevel
    if level != "" {
        l, err := zapcore.ParseLevel(level)
        if err != nil { return nil, err }
        lvl = l
    }
    encCfg := zap.NewProductionEncoderConfig()
    encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
    enc := zapcore.NewJSONEncoder(encCfg)
    consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)
    if logFile == "" {
        return zap.New(consoleCore), nil
    }
    if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil { return nil, err }
    f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil { return nil, err }
    fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
    return zap.New(zapcore.NewTee(fileCore, consoleCore)), nil
}

// SetLogger replaces the process logger returned by Logger.
func SetLogger(l *zap.Logger) {
    mu.Lock()
    defer mu.Unlock()
    logger = l
}

// Logger returns the process logger, falling back to LOG_LEVEL/LOG_FILE from
// the environment when none was set.
func Logger() *zap.Logger {
    mu.Lock()
    defer mu.Unlock()
    if logger != nil { return logger }
    l, err := NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"))
    if err != nil {
        l, _ = zap.NewProduction()
    }
    logger = l
    return logger
}
