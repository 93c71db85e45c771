package scoring

import (
    "errors"

    "frauddetect/internal/oracle"
    "frauddetect/internal/table"
)

// Error kinds, as reported to API clients and in metrics labels.
const (
    KindParse     = "parse_error"
    KindSchema    = "schema_error"
    KindLoad      = "oracle_load_error"
    KindInference = "inference_error"
    KindInternal  = "internal_error"
)

// Kind classifies an error returned by the pipeline.
func Kind(err error) string {
    var (
        pe *table.ParseError
        se *SchemaError
        le *oracle.LoadError
        ie *oracle.InferenceError
    )
    switch {
    case errors.As(err, &pe):
        return KindParse
    case errors.As(err, &se):
        return KindSchema
    case errors.As(err, &le):
        return KindLoad
    case errors.As(err, &ie):
        return KindInference
    default:
        return KindInternal
    }
}
