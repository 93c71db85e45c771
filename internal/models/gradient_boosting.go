package models

import (
    "fmt"
    "math"
)

// GBStump is one depth-1 boosting round.
type GBStump struct {
    Feature   int
    Threshold float64
    LeftVal   float64
    RightVal  float64
}

type GradientBoosting struct {
    // Init is the starting log-odds, usually log(base/(1-base)).
    Init         float64
    LearningRate float64
    Trees        []GBStump
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) PredictProba(X [][]float64) ([]float64, error) {
    out := make([]float64, len(X))
    for i := range X {
        f := gb.Init
        for k, t := range gb.Trees {
            if err := checkWidth(X[i], t.Feature+1); err != nil {
                return nil, fmt.Errorf("row %d, stump %d: %w", i, k, err)
            }
            inc := t.LeftVal
            if X[i][t.Feature] > t.Threshold { inc = t.RightVal }
            f += gb.LearningRate * inc
        }
        out[i] = sigmoid(f)
    }
    return out, nil
}

func (gb *GradientBoosting) Predict(X [][]float64) ([]int, error) { return predictWith(gb, X) }
