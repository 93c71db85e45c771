package scoring

import (
    "bytes"
    "errors"
    "fmt"
    "math"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/prometheus/client_golang/prometheus/testutil"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/mock"
    "github.com/stretchr/testify/require"

    "frauddetect/internal/metrics"
    "frauddetect/internal/models"
    "frauddetect/internal/oracle"
    "frauddetect/internal/table"
)

type mockOracle struct{ mock.Mock }

func (m *mockOracle) Name() string { return "mock" }

func (m *mockOracle) PredictProba(X [][]float64) ([][2]float64, error) {
    args := m.Called(X)
    out, _ := args.Get(0).([][2]float64)
    return out, args.Error(1)
}

func (m *mockOracle) Predict(X [][]float64) ([]int, error) {
    args := m.Called(X)
    out, _ := args.Get(0).([]int)
    return out, args.Error(1)
}

func (m *mockOracle) Close() error { return m.Called().Error(0) }

type mockLoader struct{ mock.Mock }

func (m *mockLoader) Load() (oracle.Oracle, error) {
    args := m.Called()
    o, _ := args.Get(0).(oracle.Oracle)
    return o, args.Error(1)
}

func makeTable(cols, rows int) *table.Table {
    t := &table.Table{Columns: make([]string, cols)}
    for j := range t.Columns { t.Columns[j] = fmt.Sprintf("V%d", j+1) }
    for i := 0; i < rows; i++ {
        row := make([]float64, cols)
        for j := range row { row[j] = float64(i*cols + j) }
        t.Rows = append(t.Rows, row)
    }
    return t
}

func loaderFor(o oracle.Oracle) *mockLoader {
    l := &mockLoader{}
    l.On("Load").Return(o, nil)
    return l
}

func TestScoreConcreteScenario(t *testing.T) {
    in := makeTable(30, 2)
    o := &mockOracle{}
    o.On("PredictProba", in.Rows).Return([][2]float64{{0.9, 0.1}, {0.2, 0.8}}, nil).Once()
    o.On("Predict", in.Rows).Return([]int{0, 1}, nil).Once()
    o.On("Close").Return(nil).Once()

    m := metrics.New()
    res, err := New(loaderFor(o), nil, m).Score(in)
    require.NoError(t, err)
    o.AssertExpectations(t)

    assert.Equal(t, Summary{Total: 2, Fraud: 1, NonFraud: 1}, res.Summary)
    out := res.Table()
    assert.Equal(t, 33, out.NumColumns())
    assert.Equal(t, []string{ColNonFraud, ColFraud, ColPrediction}, out.Columns[30:])
    assert.Equal(t, append(append([]float64{}, in.Rows[0]...), 0.9, 0.1, 0), out.Rows[0])
    assert.Equal(t, append(append([]float64{}, in.Rows[1]...), 0.2, 0.8, 1), out.Rows[1])

    assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("scored")))
    assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsScoredTotal.WithLabelValues("fraud")))
}

func TestScoreRejectsWrongColumnCount(t *testing.T) {
    for _, cols := range []int{0, 1, 29, 31} {
        t.Run(fmt.Sprint(cols), func(t *testing.T) {
            l := &mockLoader{}
            m := metrics.New()
            res, err := New(l, nil, m).Score(makeTable(cols, 3))
            assert.Nil(t, res)
            var se *SchemaError
            require.ErrorAs(t, err, &se)
            assert.Equal(t, SchemaError{Expected: 30, Actual: cols}, *se)
            assert.Equal(t, KindSchema, Kind(err))
            l.AssertNotCalled(t, "Load")
            assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues(KindSchema)))
        })
    }
}

func TestSchemaErrorMessage(t *testing.T) {
    err := Validate(makeTable(29, 1), 30)
    assert.EqualError(t, err, "expected 30 input features, but found 29")
}

func TestScoreMissingArtifactHaltsBeforeScoring(t *testing.T) {
    path := filepath.Join(t.TempDir(), "best_model.gob")
    res, err := New(&oracle.FileLoader{Algo: "dt", Path: path}, nil, nil).Score(makeTable(30, 2))
    assert.Nil(t, res)
    var le *oracle.LoadError
    require.ErrorAs(t, err, &le)
    assert.ErrorIs(t, err, os.ErrNotExist)
    assert.Equal(t, KindLoad, Kind(err))
}

func TestScoreWrapsForeignLoadErrors(t *testing.T) {
    l := &mockLoader{}
    l.On("Load").Return(nil, errors.New("disk on fire"))
    _, err := New(l, nil, nil).Score(makeTable(30, 1))
    var le *oracle.LoadError
    require.ErrorAs(t, err, &le)
    assert.EqualError(t, err, "disk on fire")
}

func TestScoreInferenceFailures(t *testing.T) {
    in := makeTable(30, 2)

    t.Run("proba", func(t *testing.T) {
        o := &mockOracle{}
        o.On("PredictProba", in.Rows).Return(nil, &oracle.InferenceError{Stage: oracle.StageProba, Err: errors.New("bad input")})
        o.On("Close").Return(nil)
        res, err := New(loaderFor(o), nil, nil).Score(in)
        assert.Nil(t, res)
        assert.Equal(t, KindInference, Kind(err))
        o.AssertNotCalled(t, "Predict", mock.Anything)
        o.AssertCalled(t, "Close")
    })

    t.Run("predict", func(t *testing.T) {
        o := &mockOracle{}
        o.On("PredictProba", in.Rows).Return([][2]float64{{1, 0}, {0, 1}}, nil)
        o.On("Predict", in.Rows).Return(nil, &oracle.InferenceError{Stage: oracle.StagePredict, Err: errors.New("bad input")})
        o.On("Close").Return(nil)
        res, err := New(loaderFor(o), nil, nil).Score(in)
        assert.Nil(t, res)
        assert.Equal(t, KindInference, Kind(err))
    })

    t.Run("short result", func(t *testing.T) {
        o := &mockOracle{}
        o.On("PredictProba", in.Rows).Return([][2]float64{{1, 0}}, nil)
        o.On("Predict", in.Rows).Return([]int{0}, nil)
        o.On("Close").Return(nil)
        _, err := New(loaderFor(o), nil, nil).Score(in)
        assert.Equal(t, KindInference, Kind(err))
    })
}

// A real artifact: fraud probability rises with the first feature.
func saveLogistic(t *testing.T) string {
    t.Helper()
    w := make([]float64, 30)
    w[0] = 1
    path := filepath.Join(t.TempDir(), "best_model.gob")
    require.NoError(t, models.Save(path, &models.Logistic{Weights: w, Bias: -5}))
    return path
}

func TestScorePropertiesWithDeterministicOracle(t *testing.T) {
    loader := &oracle.FileLoader{Algo: "logreg", Path: saveLogistic(t)}
    in := makeTable(30, 7)

    res, err := New(loader, nil, nil).Score(in)
    require.NoError(t, err)
    require.Len(t, res.Predictions, in.NumRows())

    for i, p := range res.Predictions {
        assert.InDelta(t, 1.0, p.NonFraud+p.Fraud, 1e-6, "row %d", i)
        want := 0
        if p.Fraud > p.NonFraud { want = 1 }
        assert.Equal(t, want, p.Label, "row %d", i)
        wantFraud := 1 / (1 + math.Exp(-(in.Rows[i][0] - 5)))
        assert.InDelta(t, wantFraud, p.Fraud, 1e-12, "row %d keeps input order", i)
    }
    s := res.Summary
    assert.Equal(t, s.Total, s.Fraud+s.NonFraud)
    assert.Equal(t, in.NumRows(), s.Total)
    assert.Equal(t, "LogisticRegression", res.Model)
}

func TestRunRoundTrip(t *testing.T) {
    loader := &oracle.FileLoader{Algo: "logreg", Path: saveLogistic(t)}
    var b strings.Builder
    for i := 0; i < 4; i++ {
        cells := make([]string, 30)
        for j := range cells { cells[j] = fmt.Sprint(i + j) }
        b.WriteString(strings.Join(cells, ",") + "\n")
    }

    in, res, err := New(loader, nil, nil).Run(strings.NewReader(b.String()))
    require.NoError(t, err)

    var buf bytes.Buffer
    require.NoError(t, table.Write(&buf, res.Table()))
    back, err := table.Parse(buf.Bytes())
    require.NoError(t, err)
    assert.Equal(t, in.NumColumns()+3, back.NumColumns())
    assert.Equal(t, in.NumRows(), back.NumRows())
}

func TestRunKeepsPreviewOnSchemaError(t *testing.T) {
    in, res, err := New(&mockLoader{}, nil, nil).Run(strings.NewReader("a,b\n1,2\n"))
    require.NotNil(t, in)
    assert.Equal(t, 2, in.NumColumns())
    assert.Nil(t, res)
    assert.Equal(t, KindSchema, Kind(err))
}

func TestRunParseError(t *testing.T) {
    in, res, err := New(&mockLoader{}, nil, nil).Run(strings.NewReader(""))
    assert.Nil(t, in)
    assert.Nil(t, res)
    assert.Equal(t, KindParse, Kind(err))
}

func TestHeaderOnlyUploadIsInferenceError(t *testing.T) {
    loader := &oracle.FileLoader{Algo: "logreg", Path: saveLogistic(t)}
    header := make([]string, 30)
    for j := range header { header[j] = fmt.Sprintf("V%d", j+1) }
    _, _, err := New(loader, nil, nil).Run(strings.NewReader(strings.Join(header, ",") + "\n"))
    assert.Equal(t, KindInference, Kind(err))
    assert.ErrorIs(t, err, oracle.ErrNoRows)
}

func TestSummaryShares(t *testing.T) {
    s := Summarize([]Prediction{{Label: 1}, {Label: 0}, {Label: 0}, {Label: 0}})
    assert.Equal(t, Summary{Total: 4, Fraud: 1, NonFraud: 3}, s)
    assert.InDelta(t, 0.25, s.FraudShare(), 1e-12)
    assert.InDelta(t, 0.75, s.NonFraudShare(), 1e-12)
    assert.Zero(t, Summary{}.FraudShare())
}

func TestComposePanicsOnLengthMismatch(t *testing.T) {
    assert.Panics(t, func() { Compose("m", makeTable(30, 2), []Prediction{{}}) })
}

func TestKindInternal(t *testing.T) {
    assert.Equal(t, KindInternal, Kind(errors.New("x")))
}
