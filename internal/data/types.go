package data

import "strconv"

// NumComponents is the count of anonymized PCA features V1..V28.
const NumComponents = 28

// Transaction is one card transaction in the layout the classifier is
// trained on: seconds since the first transaction, 28 PCA components and the
// amount. Fraud is the generator's ground truth and is not written out.
type Transaction struct {
    Time   float64                `json:"time"`
    V      [NumComponents]float64 `json:"v"`
    Amount float64                `json:"amount"`
    Fraud  bool                   `json:"fraud"`
}

// Header is the 30-column CSV header: Time, V1..V28, Amount.
func Header() []string {
    h := make([]string, 0, NumComponents+2)
    h = append(h, "Time")
    for i := 1; i <= NumComponents; i++ { h = append(h, "V"+strconv.Itoa(i)) }
    return append(h, "Amount")
}

func (t Transaction) Record() []string {
    rec := make([]string, 0, NumComponents+2)
    rec = append(rec, strconv.FormatFloat(t.Time, 'f', 0, 64))
    for _, v := range t.V { rec = append(rec, strconv.FormatFloat(v, 'f', 6, 64)) }
    return append(rec, strconv.FormatFloat(t.Amount, 'f', 2, 64))
}
