package server

import (
    "bytes"
    "encoding/json"
    "errors"
    "image/png"
    "mime/multipart"
    "net/http"
    "net/http/httptest"
    "path/filepath"
    "strings"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "frauddetect/internal/data"
    "frauddetect/internal/metrics"
    "frauddetect/internal/models"
    "frauddetect/internal/oracle"
    "frauddetect/internal/scoring"
    "frauddetect/internal/table"
)

func init() { gin.SetMode(gin.TestMode) }

// newTestServer serves a logistic model that flags rows with a low V14.
func newTestServer(t *testing.T, opts Options) (*Server, *metrics.Metrics) {
    t.Helper()
    path := filepath.Join(t.TempDir(), "best_model.gob")
    w := make([]float64, scoring.ExpectedFeatureCount)
    w[14] = -2
    require.NoError(t, models.Save(path, &models.Logistic{Weights: w, Bias: -6}))
    if opts.ModelPath == "" { opts.ModelPath = path }

    m := metrics.New()
    p := scoring.New(&oracle.FileLoader{Algo: "logreg", Path: opts.ModelPath}, nil, m)
    return New(p, nil, m, opts), m
}

func sampleCSV(t *testing.T, n int) []byte {
    t.Helper()
    var buf bytes.Buffer
    require.NoError(t, data.GenerateSample(&buf, n, 0.3, 11))
    return buf.Bytes()
}

func uploadRequest(t *testing.T, target string, content []byte) *http.Request {
    t.Helper()
    var body bytes.Buffer
    mw := multipart.NewWriter(&body)
    fw, err := mw.CreateFormFile("file", "upload.csv")
    require.NoError(t, err)
    _, err = fw.Write(content)
    require.NoError(t, err)
    require.NoError(t, mw.Close())

    req := httptest.NewRequest(http.MethodPost, target, &body)
    req.Header.Set("Content-Type", mw.FormDataContentType())
    return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
    w := httptest.NewRecorder()
    s.Router().ServeHTTP(w, req)
    return w
}

func TestIndexShowsInfoBanner(t *testing.T) {
    s, _ := newTestServer(t, Options{})
    w := serve(s, httptest.NewRequest(http.MethodGet, "/", nil))
    assert.Equal(t, http.StatusOK, w.Code)
    assert.Contains(t, w.Body.String(), infoBanner)
    assert.Contains(t, w.Body.String(), "Predicting...")
    assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
    s, _ := newTestServer(t, Options{})
    req := httptest.NewRequest(http.MethodGet, "/health", nil)
    req.Header.Set(requestIDHeader, "abc-123")
    w := serve(s, req)
    assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestUploadRendersResults(t *testing.T) {
    s, _ := newTestServer(t, Options{PreviewRows: 3})
    w := serve(s, uploadRequest(t, "/", sampleCSV(t, 12)))
    require.Equal(t, http.StatusOK, w.Code)

    body := w.Body.String()
    for _, want := range []string{
        "Uploaded Data Preview",
        "Prediction Results",
        "Fraud Probability",
        "Fraud Detection App",
        "Total Cases",
        "Fraudulent Cases",
        "Non-Fraudulent Cases",
        `<div class="delta inverse">`,
        "data:image/png;base64,",
        "data:text/csv;base64,",
        resultsFileName,
    } {
        assert.Contains(t, body, want)
    }
    assert.NotContains(t, body, "banner error")
}

func TestUploadErrorBanners(t *testing.T) {
    narrow := "a,b\n1,2\n"
    cases := []struct {
        name    string
        content string
        status  int
        banner  string
        preview bool
    }{
        {"empty", "", http.StatusBadRequest, "File error: ", false},
        {"binary", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR", http.StatusBadRequest, "File error: ", false},
        {"schema", narrow, http.StatusUnprocessableEntity,
            "❌ Expected 30 input features, but found 2. Please upload a valid file.", true},
    }
    s, _ := newTestServer(t, Options{})
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            w := serve(s, uploadRequest(t, "/", []byte(tc.content)))
            assert.Equal(t, tc.status, w.Code)
            assert.Contains(t, w.Body.String(), tc.banner)
            assert.Equal(t, tc.preview, strings.Contains(w.Body.String(), "Uploaded Data Preview"))
            assert.NotContains(t, w.Body.String(), "Prediction Results")
        })
    }
}

func TestUploadMissingModel(t *testing.T) {
    s, _ := newTestServer(t, Options{ModelPath: filepath.Join(t.TempDir(), "missing.gob")})
    w := serve(s, uploadRequest(t, "/", sampleCSV(t, 2)))
    assert.Equal(t, http.StatusServiceUnavailable, w.Code)
    assert.Contains(t, w.Body.String(), "Error loading model: ")
    assert.Contains(t, w.Body.String(), "Uploaded Data Preview")
}

func TestUploadWithoutFile(t *testing.T) {
    s, _ := newTestServer(t, Options{})
    req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
    req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
    w := serve(s, req)
    assert.Equal(t, http.StatusBadRequest, w.Code)
    assert.Contains(t, w.Body.String(), infoBanner)
}

func TestUploadTooLarge(t *testing.T) {
    s, _ := newTestServer(t, Options{UploadMaxBytes: 64})
    w := serve(s, uploadRequest(t, "/", sampleCSV(t, 5)))
    assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
    assert.Contains(t, w.Body.String(), "File error: upload exceeds 64 bytes")
}

type predictResponse struct {
    Model       string               `json:"model"`
    Summary     scoring.Summary      `json:"summary"`
    Predictions []scoring.Prediction `json:"predictions"`
}

func TestAPIPredict(t *testing.T) {
    s, m := newTestServer(t, Options{})
    w := serve(s, uploadRequest(t, "/api/predict", sampleCSV(t, 20)))
    require.Equal(t, http.StatusOK, w.Code)

    var resp predictResponse
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
    assert.Equal(t, "LogisticRegression", resp.Model)
    assert.Equal(t, 20, resp.Summary.Total)
    assert.Equal(t, resp.Summary.Total, resp.Summary.Fraud+resp.Summary.NonFraud)
    require.Len(t, resp.Predictions, 20)
    for _, p := range resp.Predictions {
        assert.InDelta(t, 1.0, p.Fraud+p.NonFraud, 1e-9)
    }

    metricsBody := serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Body.String()
    assert.Contains(t, metricsBody, `frauddetect_uploads_total{outcome="scored"} 1`)
    assert.Contains(t, metricsBody, `frauddetect_http_requests_total{method="POST",path="/api/predict",status="200"} 1`)
    rows := testutil.ToFloat64(m.RowsScoredTotal.WithLabelValues("fraud")) + testutil.ToFloat64(m.RowsScoredTotal.WithLabelValues("non_fraud"))
    assert.Equal(t, 20.0, rows)
}

func TestAPIPredictErrors(t *testing.T) {
    s, _ := newTestServer(t, Options{})

    w := serve(s, uploadRequest(t, "/api/predict", []byte("a,b\n1,2\n")))
    assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
    var body map[string]string
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
    assert.Equal(t, scoring.KindSchema, body["kind"])
    assert.Equal(t, "expected 30 input features, but found 2", body["message"])
    assert.Contains(t, body["error"], "Please upload a valid file.")

    w = serve(s, uploadRequest(t, "/api/predict", []byte("1,2\n3,x\n")))
    assert.Equal(t, http.StatusBadRequest, w.Code)
    require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
    assert.Equal(t, scoring.KindParse, body["kind"])
}

func TestAPIPredictCSV(t *testing.T) {
    s, _ := newTestServer(t, Options{})
    w := serve(s, uploadRequest(t, "/api/predict/csv", sampleCSV(t, 4)))
    require.Equal(t, http.StatusOK, w.Code)
    assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
    assert.Contains(t, w.Header().Get("Content-Disposition"), resultsFileName)

    out, err := table.Parse(w.Body.Bytes())
    require.NoError(t, err)
    assert.Equal(t, 33, out.NumColumns())
    assert.Equal(t, 4, out.NumRows())
    assert.Equal(t, []string{scoring.ColNonFraud, scoring.ColFraud, scoring.ColPrediction}, out.Columns[30:])
}

func TestChart(t *testing.T) {
    s, _ := newTestServer(t, Options{})
    w := serve(s, httptest.NewRequest(http.MethodGet, "/api/chart.png?fraud=3&non_fraud=9", nil))
    require.Equal(t, http.StatusOK, w.Code)
    assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
    _, err := png.Decode(w.Body)
    assert.NoError(t, err)

    w = serve(s, httptest.NewRequest(http.MethodGet, "/api/chart.png?fraud=-1", nil))
    assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
    s, _ := newTestServer(t, Options{ModelAlgo: "logreg"})
    w := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
    assert.Equal(t, http.StatusOK, w.Code)
    assert.Contains(t, w.Body.String(), `"status":"ok"`)

    s, _ = newTestServer(t, Options{ModelPath: filepath.Join(t.TempDir(), "missing.gob")})
    w = serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
    assert.Equal(t, http.StatusServiceUnavailable, w.Code)
    assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

func TestBanner(t *testing.T) {
    assert.Equal(t, "❌ Expected 30 input features, but found 31. Please upload a valid file.",
        Banner(&scoring.SchemaError{Expected: 30, Actual: 31}))
    assert.Equal(t, "Error loading model: boom", Banner(&oracle.LoadError{Err: errors.New("boom")}))
    assert.Equal(t, "Prediction error: predict_proba: boom",
        Banner(&oracle.InferenceError{Stage: oracle.StageProba, Err: errors.New("boom")}))
}

func TestResultMetrics(t *testing.T) {
    s, _ := newTestServer(t, Options{})
    in := &table.Table{Columns: []string{"a"}, Rows: [][]float64{{1}, {2}, {3}, {4}}}
    res := scoring.Compose("m", in, []scoring.Prediction{{Label: 1}, {Label: 0}, {Label: 0}, {Label: 0}})

    var view pageView
    require.NoError(t, s.fillResults(&view, res))
    assert.Equal(t, []metricView{
        {Label: "Total Cases", Value: "4"},
        {Label: "Fraudulent Cases", Value: "1", Delta: "25.0%", Inverse: true},
        {Label: "Non-Fraudulent Cases", Value: "3", Delta: "75.0%"},
    }, view.Metrics)
    assert.Equal(t, resultsFileName, view.CSVName)
}
