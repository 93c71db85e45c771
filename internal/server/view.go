package server

import (
    "encoding/base64"
    "errors"
    "fmt"
    "html/template"
    "net/http"

    "frauddetect/internal/scoring"
    "frauddetect/internal/table"
)

const (
    infoBanner      = "Please upload a CSV file to get started."
    resultsFileName = "fraud_detection_results.csv"
    // maxResultRows bounds the rendered results table; the download holds every row.
    maxResultRows = 1000
)

type metricView struct {
    Label string
    Value string
    Delta string
    // Inverse marks a delta where a higher value is worse.
    Inverse bool
}

type pageView struct {
    Theme Theme
    Info  string
    Error string

    Preview *table.Table

    Model     string
    Results   *table.Table
    ShownRows int
    TotalRows int
    Metrics   []metricView
    ChartURI  template.URL
    CSVURI    template.URL
    CSVName   string
}

// Banner turns a pipeline error into the message shown to the user.
func Banner(err error) string {
    var se *scoring.SchemaError
    switch scoring.Kind(err) {
    case scoring.KindParse:
        return "File error: " + err.Error()
    case scoring.KindSchema:
        errors.As(err, &se)
        return fmt.Sprintf("❌ Expected %d input features, but found %d. Please upload a valid file.", se.Expected, se.Actual)
    case scoring.KindLoad:
        return "Error loading model: " + err.Error()
    default:
        return "Prediction error: " + err.Error()
    }
}

func statusFor(err error) int {
    switch scoring.Kind(err) {
    case scoring.KindParse:
        return http.StatusBadRequest
    case scoring.KindSchema:
        return http.StatusUnprocessableEntity
    case scoring.KindLoad:
        return http.StatusServiceUnavailable
    default:
        return http.StatusInternalServerError
    }
}

func dataURI(mime string, b []byte) template.URL {
    return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b))
}
