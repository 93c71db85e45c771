package models

import "fmt"

// RandomForest averages the leaf probabilities of its trees.
type RandomForest struct {
    Trees []*DecisionTree
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Predict(X [][]float64) ([]int, error) { return predictWith(rf, X) }

func (rf *RandomForest) PredictProba(X [][]float64) ([]float64, error) {
    return averageTrees(rf.Trees, X)
}

func averageTrees(trees []*DecisionTree, X [][]float64) ([]float64, error) {
    if len(trees) == 0 { return nil, fmt.Errorf("ensemble has no trees") }
    n := len(X)
    out := make([]float64, n)
    for k, dt := range trees {
        p, err := dt.PredictProba(X)
        if err != nil { return nil, fmt.Errorf("tree %d: %w", k, err) }
        for i := 0; i < n; i++ { out[i] += p[i] }
    }
    m := float64(len(trees))
    for i := 0; i < n; i++ { out[i] /= m }
    return out, nil
}
