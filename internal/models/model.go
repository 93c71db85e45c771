package models

import "fmt"

// Model scores rows of numeric features. PredictProba returns the fraud
// probability of each row and Predict the matching hard label.
type Model interface {
    PredictProba(X [][]float64) ([]float64, error)
    Predict(X [][]float64) ([]int, error)
    Name() string
}

// labels turns fraud probabilities into hard labels. A row is fraud only
// when its fraud probability beats the non-fraud one, ties go to 0.
func labels(ps []float64) []int {
    out := make([]int, len(ps))
    for i := range ps { if ps[i] > 0.5 { out[i] = 1 } }
    return out
}

func predictWith(m Model, X [][]float64) ([]int, error) {
    ps, err := m.PredictProba(X)
    if err != nil { return nil, err }
    return labels(ps), nil
}

func checkWidth(x []float64, need int) error {
    if need > len(x) {
        return fmt.Errorf("model reads feature %d but row has %d values", need, len(x))
    }
    return nil
}
