package scoring

import (
    "fmt"

    "frauddetect/internal/table"
)

// ExpectedFeatureCount is the number of input columns the classifier takes.
const ExpectedFeatureCount = 30

// SchemaError means the upload has the wrong number of feature columns.
type SchemaError struct {
    Expected int
    Actual   int
}

func (e *SchemaError) Error() string {
    return fmt.Sprintf("expected %d input features, but found %d", e.Expected, e.Actual)
}

// Validate checks that t has exactly expected columns.
func Validate(t *table.Table, expected int) error {
    if n := t.NumColumns(); n != expected {
        return &SchemaError{Expected: expected, Actual: n}
    }
    return nil
}
