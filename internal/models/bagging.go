package models

// Bagging is an ensemble of bootstrap-trained trees using all features.
type Bagging struct {
    Trees []*DecisionTree
}

func (bg *Bagging) Name() string { return "Bagging" }

func (bg *Bagging) Predict(X [][]float64) ([]int, error) { return predictWith(bg, X) }

func (bg *Bagging) PredictProba(X [][]float64) ([]float64, error) {
    return averageTrees(bg.Trees, X)
}
