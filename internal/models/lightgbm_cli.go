package models

import (
    "bufio"
    "bytes"
    "fmt"
    "os"
    "os/exec"
    "path/filepath"
    "strconv"
    "strings"
)

// LightGBMCLI scores rows with a LightGBM text model through the lightgbm
// binary (task=predict). Each call works in its own temporary directory.
type LightGBMCLI struct {
    ExecPath  string
    ModelPath string
}

func NewLightGBMCLI(execPath, modelPath string) *LightGBMCLI {
    if execPath == "" { execPath = "lightgbm" }
    return &LightGBMCLI{ExecPath: execPath, ModelPath: modelPath}
}

func (l *LightGBMCLI) Name() string { return "LightGBM" }

func (l *LightGBMCLI) Predict(X [][]float64) ([]int, error) { return predictWith(l, X) }

func (l *LightGBMCLI) PredictProba(X [][]float64) ([]float64, error) {
    if len(X) == 0 { return []float64{}, nil }
    dir, err := os.MkdirTemp("", "lgbm-predict-")
    if err != nil { return nil, err }
    defer os.RemoveAll(dir)

    predCSV := filepath.Join(dir, "pred.csv")
    if err := writeCSVLabelFirst(predCSV, X); err != nil { return nil, err }

    conf := filepath.Join(dir, "predict.conf")
    outPath := filepath.Join(dir, "preds.txt")
    cfg := fmt.Sprintf("task=predict\ninput_model=%s\ndata=%s\nheader=false\nlabel_column=0\noutput_result=%s\n",
        l.ModelPath, predCSV, outPath,
    )
    if err := os.WriteFile(conf, []byte(cfg), 0o644); err != nil { return nil, err }

    cmd := exec.Command(l.ExecPath, fmt.Sprintf("config=%s", conf))
    if out, err := cmd.CombinedOutput(); err != nil {
        return nil, fmt.Errorf("lightgbm predict failed: %w: %s", err, strings.TrimSpace(string(lastLine(out))))
    }

    f, err := os.Open(outPath)
    if err != nil { return nil, err }
    defer f.Close()
    sc := bufio.NewScanner(f)
    ps := make([]float64, 0, len(X))
    for sc.Scan() {
        line := strings.TrimSpace(sc.Text())
        if line == "" { continue }
        v, err := strconv.ParseFloat(line, 64)
        if err != nil { return nil, fmt.Errorf("lightgbm output line %d: %w", len(ps)+1, err) }
        ps = append(ps, v)
    }
    if err := sc.Err(); err != nil { return nil, err }
    if len(ps) != len(X) {
        return nil, fmt.Errorf("lightgbm returned %d predictions for %d rows", len(ps), len(X))
    }
    return ps, nil
}

// writeCSVLabelFirst writes rows behind a dummy label column, the layout
// label_column=0 expects.
func writeCSVLabelFirst(path string, X [][]float64) error {
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := bufio.NewWriter(f)
    for i := range X {
        fmt.Fprint(w, "0")
        for j := range X[i] {
            fmt.Fprintf(w, ",%g", X[i][j])
        }
        fmt.Fprintln(w)
    }
    return w.Flush()
}

func lastLine(b []byte) []byte {
    b = bytes.TrimSpace(b)
    if i := bytes.LastIndexByte(b, '\n'); i >= 0 { return b[i+1:] }
    return b
}
