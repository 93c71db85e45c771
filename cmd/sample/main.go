package main

import (
    "flag"
    "time"

    "go.uber.org/zap"

    "frauddetect/internal/data"
    "frauddetect/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    n := flag.Int("n", 1000, "Number of transactions to generate")
    rate := flag.Float64("fraud_rate", 0.02, "Share of fraudulent transactions")
    seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
    out := flag.String("out", "data/sample_upload.csv", "Output CSV path")
    flag.Parse()

    logger.Info("generating sample upload", zap.Int("n", *n), zap.Float64("fraud_rate", *rate), zap.String("out", *out))
    if err := data.WriteSampleFile(*out, *n, *rate, *seed); err != nil {
        logger.Fatal("failed to generate sample", zap.Error(err))
    }
}
