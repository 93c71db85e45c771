// Package oracle adapts a trained classifier artifact into the two calls the
// scoring pipeline needs: class probabilities and hard labels.
package oracle

import (
    "errors"
    "fmt"
    "io"
    "math"

    "frauddetect/internal/models"
)

const (
    StageProba   = "predict_proba"
    StagePredict = "predict"
)

var ErrNoRows = errors.New("no rows to score")

// Oracle is an opaque, read-only classifier. PredictProba returns one
// (non-fraud, fraud) pair per row, Predict one label in {0, 1} per row.
type Oracle interface {
    Name() string
    PredictProba(X [][]float64) ([][2]float64, error)
    Predict(X [][]float64) ([]int, error)
    Close() error
}

// Loader produces an Oracle for one scoring pass.
type Loader interface {
    Load() (Oracle, error)
}

// LoadError means the artifact is missing or could not be deserialized.
type LoadError struct {
    Algo string
    Path string
    Err  error
}

func (e *LoadError) Error() string { return e.Err.Error() }

func (e *LoadError) Unwrap() error { return e.Err }

// InferenceError means the classifier failed while scoring.
type InferenceError struct {
    Stage string
    Err   error
}

func (e *InferenceError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *InferenceError) Unwrap() error { return e.Err }

type modelOracle struct {
    m models.Model
}

// FromModel wraps a models.Model. A model error, a panic, or a result of the
// wrong length comes back as *InferenceError.
func FromModel(m models.Model) Oracle { return &modelOracle{m: m} }

func (o *modelOracle) Name() string { return o.m.Name() }

func (o *modelOracle) PredictProba(X [][]float64) (out [][2]float64, err error) {
    if len(X) == 0 { return nil, &InferenceError{Stage: StageProba, Err: ErrNoRows} }
    defer recoverInto(&err, StageProba)

    ps, err := o.m.PredictProba(X)
    if err != nil { return nil, &InferenceError{Stage: StageProba, Err: err} }
    if len(ps) != len(X) {
        return nil, &InferenceError{Stage: StageProba, Err: fmt.Errorf("model returned %d probabilities for %d rows", len(ps), len(X))}
    }
    out = make([][2]float64, len(ps))
    for i, p := range ps {
        if math.IsNaN(p) || p < 0 || p > 1 {
            return nil, &InferenceError{Stage: StageProba, Err: fmt.Errorf("row %d: probability %v outside [0, 1]", i, p)}
        }
        out[i] = [2]float64{1 - p, p}
    }
    return out, nil
}

func (o *modelOracle) Predict(X [][]float64) (out []int, err error) {
    if len(X) == 0 { return nil, &InferenceError{Stage: StagePredict, Err: ErrNoRows} }
    defer recoverInto(&err, StagePredict)

    ys, err := o.m.Predict(X)
    if err != nil { return nil, &InferenceError{Stage: StagePredict, Err: err} }
    if len(ys) != len(X) {
        return nil, &InferenceError{Stage: StagePredict, Err: fmt.Errorf("model returned %d labels for %d rows", len(ys), len(X))}
    }
    for i, y := range ys {
        if y != 0 && y != 1 {
            return nil, &InferenceError{Stage: StagePredict, Err: fmt.Errorf("row %d: label %d is not 0 or 1", i, y)}
        }
    }
    return ys, nil
}

func (o *modelOracle) Close() error {
    if c, ok := o.m.(io.Closer); ok { return c.Close() }
    return nil
}

func recoverInto(err *error, stage string) {
    if r := recover(); r != nil {
        *err = &InferenceError{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
    }
}
