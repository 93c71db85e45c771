package main

import (
    "bytes"
    "errors"
    "flag"
    "fmt"
    "os"
    "path/filepath"

    "go.uber.org/zap"

    "frauddetect/internal/config"
    "frauddetect/internal/oracle"
    "frauddetect/internal/report"
    "frauddetect/internal/scoring"
    "frauddetect/internal/server"
    "frauddetect/internal/table"
    "frauddetect/pkg/utils"
)

func main() {
    in := flag.String("in", "", "CSV of transactions to score")
    out := flag.String("out", "fraud_detection_results.csv", "Results CSV")
    chart := flag.String("chart", "fraud_vs_non_fraud.png", "Pie chart PNG, empty to skip")
    algo := flag.String("algo", "", "Model kind: dt|rf|bagging|gb|logreg|lgbm|onnx (default $MODEL_ALGO)")
    modelPath := flag.String("model", "", "Trained model artifact (default $MODEL_PATH)")
    flag.Parse()
    if *in == "" { fmt.Fprintln(os.Stderr, "-in is required"); flag.Usage(); os.Exit(2) }

    cfg, err := config.Load()
    if err != nil { fmt.Fprintln(os.Stderr, err); os.Exit(2) }
    if *algo == "" { *algo = cfg.ModelAlgo }
    if *modelPath == "" { *modelPath = cfg.ModelPath }

    logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
    if err != nil { fmt.Fprintln(os.Stderr, err); os.Exit(2) }
    utils.SetLogger(logger)
    defer logger.Sync()

    if err := run(logger, cfg, *in, *out, *chart, *algo, *modelPath); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

func run(logger *zap.Logger, cfg *config.Config, in, out, chart, algo, modelPath string) error {
    loader := &oracle.FileLoader{Algo: algo, Path: modelPath, Options: cfg.ModelOptions()}
    p := scoring.New(loader, logger, nil)

    raw, err := os.ReadFile(in)
    if err != nil { return fmt.Errorf("File error: %w", err) }
    _, res, err := p.Run(bytes.NewReader(raw))
    if err != nil { return errors.New(server.Banner(err)) }

    if err := writeResults(out, res); err != nil { return err }
    fmt.Println("Results saved to:", out)

    if chart != "" {
        theme := server.DefaultTheme()
        pc, err := report.FraudPie(res.Summary, theme.FraudColor, theme.NonFraudColor)
        if err != nil { return err }
        if dir := filepath.Dir(chart); dir != "" {
            if err := os.MkdirAll(dir, 0o755); err != nil { return err }
        }
        if err := pc.Save(report.DefaultChartWidth, report.DefaultChartWidth, chart); err != nil { return err }
        fmt.Println("Chart saved to:", chart)
    }

    s := res.Summary
    fmt.Printf("Model: %s\n", res.Model)
    fmt.Printf("Total Cases: %s\n", report.Count(s.Total))
    fmt.Printf("Fraudulent Cases: %s (%s)\n", report.Count(s.Fraud), report.Percent(s.FraudShare()))
    fmt.Printf("Non-Fraudulent Cases: %s (%s)\n", report.Count(s.NonFraud), report.Percent(s.NonFraudShare()))
    return nil
}

func writeResults(path string, res *scoring.Result) error {
    if dir := filepath.Dir(path); dir != "" {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    f, err := os.Create(path)
    if err != nil { return err }
    if err := table.Write(f, res.Table()); err != nil {
        f.Close()
        return err
    }
    return f.Close()
}
