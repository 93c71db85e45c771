package scoring

import (
    "fmt"

    "frauddetect/internal/table"
)

// Column names appended to the uploaded table.
const (
    ColNonFraud   = "Non-Fraud Probability"
    ColFraud      = "Fraud Probability"
    ColPrediction = "Prediction"
)

// Prediction is the oracle's verdict for one row.
type Prediction struct {
    NonFraud float64 `json:"non_fraud_probability"`
    Fraud    float64 `json:"fraud_probability"`
    Label    int     `json:"prediction"`
}

type Summary struct {
    Total    int `json:"total"`
    Fraud    int `json:"fraud"`
    NonFraud int `json:"non_fraud"`
}

func (s Summary) FraudShare() float64 {
    if s.Total == 0 { return 0 }
    return float64(s.Fraud) / float64(s.Total)
}

func (s Summary) NonFraudShare() float64 {
    if s.Total == 0 { return 0 }
    return float64(s.NonFraud) / float64(s.Total)
}

// Result pairs every input row with its prediction, in upload order.
type Result struct {
    Model       string
    Input       *table.Table
    Predictions []Prediction
    Summary     Summary
}

// Compose pairs row i of in with preds[i] and counts labels. Both come from
// the same validated table, so a length mismatch is a programming error.
func Compose(model string, in *table.Table, preds []Prediction) *Result {
    if len(preds) != in.NumRows() {
        panic(fmt.Sprintf("scoring: %d predictions for %d rows", len(preds), in.NumRows()))
    }
    return &Result{Model: model, Input: in, Predictions: preds, Summary: Summarize(preds)}
}

func Summarize(preds []Prediction) Summary {
    s := Summary{Total: len(preds)}
    for _, p := range preds {
        if p.Label == 1 { s.Fraud++ } else { s.NonFraud++ }
    }
    return s
}

// Table is the input with the three prediction columns appended.
func (r *Result) Table() *table.Table {
    extra := make([][]float64, len(r.Predictions))
    for i, p := range r.Predictions {
        extra[i] = []float64{p.NonFraud, p.Fraud, float64(p.Label)}
    }
    t, err := r.Input.AppendColumns([]string{ColNonFraud, ColFraud, ColPrediction}, extra)
    if err != nil { panic(err) }
    return t
}
