package models

import "fmt"

type DTNode struct {
    Feature   int
    Threshold float64
    Left      *DTNode
    Right     *DTNode
    IsLeaf    bool
    ProbaLeaf float64
}

type DecisionTree struct {
    Root *DTNode
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Predict(X [][]float64) ([]int, error) { return predictWith(dt, X) }

func (dt *DecisionTree) PredictProba(X [][]float64) ([]float64, error) {
    out := make([]float64, len(X))
    for i := range X {
        p, err := dt.predictProbaOne(X[i])
        if err != nil { return nil, fmt.Errorf("row %d: %w", i, err) }
        out[i] = p
    }
    return out, nil
}

func (dt *DecisionTree) predictProbaOne(x []float64) (float64, error) {
    n := dt.Root
    if n == nil { return 0, fmt.Errorf("decision tree has no root") }
    for !n.IsLeaf {
        if err := checkWidth(x, n.Feature+1); err != nil { return 0, err }
        if x[n.Feature] <= n.Threshold { n = n.Left } else { n = n.Right }
        if n == nil { return 0, fmt.Errorf("decision tree has a split with a missing child") }
    }
    return n.ProbaLeaf, nil
}
