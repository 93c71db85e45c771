// Package config reads the service settings from the environment.
package config

import (
    "fmt"
    "os"
    "path/filepath"
    "strconv"

    "github.com/go-playground/validator/v10"
    "github.com/joho/godotenv"
    "go.uber.org/multierr"

    "frauddetect/internal/models"
)

const (
    DefaultPort           = "8080"
    DefaultModelAlgo      = "dt"
    DefaultLightGBMBin    = "lightgbm"
    DefaultUploadMaxBytes = 32 << 20
    DefaultPreviewRows    = 5
    DefaultLogLevel       = "info"
)

// DefaultModelPath is where the trained classifier artifact is expected.
var DefaultModelPath = filepath.Join("models", "best_model.gob")

type Config struct {
    Port           string `validate:"required,numeric"`
    GinMode        string `validate:"omitempty,oneof=debug release test"`
    ModelAlgo      string `validate:"required,oneof=dt rf bagging gb logreg lgbm onnx"`
    ModelPath      string `validate:"required"`
    ModelCache     bool
    LightGBMBin    string `validate:"required"`
    ONNXLibPath    string
    UploadMaxBytes int64  `validate:"gt=0"`
    PreviewRows    int    `validate:"gte=1,lte=100"`
    LogLevel       string `validate:"oneof=debug info warn error"`
    LogFile        string
}

var validate = validator.New()

// Load reads a .env file when present, then the process environment. A
// malformed number or boolean is an error rather than a silent default.
func Load() (*Config, error) {
    _ = godotenv.Load()

    var errs error
    uploadMax, err := getEnvInt64("UPLOAD_MAX_BYTES", DefaultUploadMaxBytes)
    errs = multierr.Append(errs, err)
    previewRows, err := getEnvInt64("PREVIEW_ROWS", DefaultPreviewRows)
    errs = multierr.Append(errs, err)
    modelCache, err := getEnvBool("MODEL_CACHE", false)
    errs = multierr.Append(errs, err)
    if errs != nil {
        return nil, fmt.Errorf("invalid configuration: %w", errs)
    }

    cfg := &Config{
        Port:           getEnv("PORT", DefaultPort),
        GinMode:        os.Getenv("GIN_MODE"),
        ModelAlgo:      getEnv("MODEL_ALGO", DefaultModelAlgo),
        ModelPath:      getEnv("MODEL_PATH", DefaultModelPath),
        ModelCache:     modelCache,
        LightGBMBin:    getEnv("LIGHTGBM_BIN", DefaultLightGBMBin),
        ONNXLibPath:    os.Getenv("ONNXRUNTIME_LIB"),
        UploadMaxBytes: uploadMax,
        PreviewRows:    int(previewRows),
        LogLevel:       getEnv("LOG_LEVEL", DefaultLogLevel),
        LogFile:        os.Getenv("LOG_FILE"),
    }
    if err := cfg.Validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) Validate() error {
    if err := validate.Struct(c); err != nil {
        return fmt.Errorf("invalid configuration: %w", err)
    }
    return nil
}

func (c *Config) ModelOptions() models.Options {
    return models.Options{LightGBMBin: c.LightGBMBin, ONNXLibPath: c.ONNXLibPath}
}

func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" { return v }
    return def
}

func getEnvInt64(key string, def int64) (int64, error) {
    v := os.Getenv(key)
    if v == "" { return def, nil }
    i, err := strconv.ParseInt(v, 10, 64)
    if err != nil { return 0, fmt.Errorf("%s=%q is not an integer", key, v) }
    return i, nil
}

func getEnvBool(key string, def bool) (bool, error) {
    v := os.Getenv(key)
    if v == "" { return def, nil }
    b, err := strconv.ParseBool(v)
    if err != nil { return false, fmt.Errorf("%s=%q is not a boolean", key, v) }
    return b, nil
}
