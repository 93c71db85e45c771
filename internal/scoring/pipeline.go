// Package scoring runs an uploaded table through validation, the classifier
// and result composition.
package scoring

import (
    "errors"
    "io"
    "time"

    "go.uber.org/zap"

    "frauddetect/internal/metrics"
    "frauddetect/internal/oracle"
    "frauddetect/internal/table"
)

// Pipeline holds the per-request dependencies. It keeps no state between
// calls, so one value can serve concurrent requests.
type Pipeline struct {
    Loader   oracle.Loader
    Expected int
    Logger   *zap.Logger
    Metrics  *metrics.Metrics
}

func New(loader oracle.Loader, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
    if logger == nil { logger = zap.NewNop() }
    return &Pipeline{Loader: loader, Expected: ExpectedFeatureCount, Logger: logger, Metrics: m}
}

// Run parses r and scores it. The parsed table is returned whenever parsing
// succeeded, even if a later stage failed, so callers can still preview it.
func (p *Pipeline) Run(r io.Reader) (*table.Table, *Result, error) {
    in, err := table.Load(r)
    if err != nil {
        p.halt(err)
        return nil, nil, err
    }
    res, err := p.Score(in)
    return in, res, err
}

// Score validates in, loads the oracle and scores every row. Any failure
// halts the pass and discards what was computed so far.
func (p *Pipeline) Score(in *table.Table) (*Result, error) {
    expected := p.Expected
    if expected == 0 { expected = ExpectedFeatureCount }
    if err := Validate(in, expected); err != nil {
        p.halt(err)
        return nil, err
    }

    o, err := p.Loader.Load()
    if err != nil {
        var le *oracle.LoadError
        if !errors.As(err, &le) { err = &oracle.LoadError{Err: err} }
        p.halt(err)
        return nil, err
    }
    defer o.Close()

    start := time.Now()
    probs, err := o.PredictProba(in.Rows)
    if err != nil {
        p.halt(err)
        return nil, err
    }
    labels, err := o.Predict(in.Rows)
    if err != nil {
        p.halt(err)
        return nil, err
    }
    if len(probs) != in.NumRows() || len(labels) != in.NumRows() {
        err := &oracle.InferenceError{Stage: oracle.StagePredict, Err: errors.New("oracle result count does not match row count")}
        p.halt(err)
        return nil, err
    }

    preds := make([]Prediction, len(probs))
    disagree := 0
    for i := range probs {
        preds[i] = Prediction{NonFraud: probs[i][0], Fraud: probs[i][1], Label: labels[i]}
        if argmax(probs[i]) != labels[i] { disagree++ }
    }
    res := Compose(o.Name(), in, preds)
    elapsed := time.Since(start)

    if disagree > 0 {
        p.Logger.Warn("labels disagree with probabilities",
            zap.String("model", o.Name()), zap.Int("rows", disagree))
    }
    p.Logger.Info("scored upload",
        zap.String("model", o.Name()),
        zap.Int("rows", res.Summary.Total),
        zap.Int("fraud", res.Summary.Fraud),
        zap.Duration("elapsed", elapsed),
    )
    p.Metrics.ObserveScored(res.Summary.Fraud, res.Summary.NonFraud, elapsed)
    return res, nil
}

func (p *Pipeline) halt(err error) {
    kind := Kind(err)
    p.Logger.Warn("upload halted", zap.String("kind", kind), zap.Error(err))
    p.Metrics.ObserveHalted(kind)
}

// argmax picks the fraud class only when it is strictly more likely.
func argmax(pair [2]float64) int {
    if pair[1] > pair[0] { return 1 }
    return 0
}
