package models

import "fmt"

// Logistic is a linear classifier over optionally standardized features:
// p = sigmoid(Bias + sum(Weights[j] * (x[j]-Mean[j]) / Scale[j])).
type Logistic struct {
    Weights []float64
    Bias    float64
    Mean    []float64
    Scale   []float64
}

func (lr *Logistic) Name() string { return "LogisticRegression" }

func (lr *Logistic) Predict(X [][]float64) ([]int, error) { return predictWith(lr, X) }

func (lr *Logistic) PredictProba(X [][]float64) ([]float64, error) {
    scaled := len(lr.Mean) == len(lr.Weights) && len(lr.Scale) == len(lr.Weights)
    out := make([]float64, len(X))
    for i, x := range X {
        if len(x) != len(lr.Weights) {
            return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(x), len(lr.Weights))
        }
        z := lr.Bias
        for j, w := range lr.Weights {
            v := x[j]
            if scaled && lr.Scale[j] != 0 { v = (v - lr.Mean[j]) / lr.Scale[j] }
            z += w * v
        }
        out[i] = sigmoid(z)
    }
    return out, nil
}
