package models

import (
    "bufio"
    "encoding/gob"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
)

var (
    ErrUnknownAlgo   = errors.New("unknown model algorithm")
    ErrEmptyArtifact = errors.New("artifact holds no trained model")
)

// Algos lists the accepted MODEL_ALGO values.
var Algos = []string{"dt", "rf", "bagging", "gb", "logreg", "lgbm", "onnx"}

type Options struct {
    LightGBMBin string
    ONNXLibPath string
}

// Open deserializes the artifact at path as the given algorithm. Gob kinds
// hold the struct written by Save; lgbm is a LightGBM text model; onnx is an
// ONNX graph with a JSON metadata sidecar.
func Open(algo, path string, opts Options) (Model, error) {
    switch strings.ToLower(algo) {
    case "dt":
        var dt DecisionTree
        if err := decodeGob(path, &dt); err != nil { return nil, err }
        if dt.Root == nil { return nil, ErrEmptyArtifact }
        return &dt, nil
    case "rf":
        var rf RandomForest
        if err := decodeGob(path, &rf); err != nil { return nil, err }
        if err := checkTrees(rf.Trees); err != nil { return nil, err }
        return &rf, nil
    case "bagging":
        var bg Bagging
        if err := decodeGob(path, &bg); err != nil { return nil, err }
        if err := checkTrees(bg.Trees); err != nil { return nil, err }
        return &bg, nil
    case "gb":
        var gb GradientBoosting
        if err := decodeGob(path, &gb); err != nil { return nil, err }
        if len(gb.Trees) == 0 { return nil, ErrEmptyArtifact }
        return &gb, nil
    case "logreg":
        var lr Logistic
        if err := decodeGob(path, &lr); err != nil { return nil, err }
        if len(lr.Weights) == 0 { return nil, ErrEmptyArtifact }
        return &lr, nil
    case "lgbm":
        if err := checkLightGBMModel(path); err != nil { return nil, err }
        return NewLightGBMCLI(opts.LightGBMBin, path), nil
    case "onnx":
        o, err := OpenONNX(path, opts.ONNXLibPath)
        if err != nil { return nil, err }
        return o, nil
    default:
        return nil, fmt.Errorf("%w %q", ErrUnknownAlgo, algo)
    }
}

// Save gob-encodes a model so Open can read it back.
func Save(path string, m Model) error {
    switch m.(type) {
    case *DecisionTree, *RandomForest, *Bagging, *GradientBoosting, *Logistic:
    default:
        return fmt.Errorf("%s cannot be stored as gob", m.Name())
    }
    if dir := filepath.Dir(path); dir != "" {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    f, err := os.Create(path)
    if err != nil { return err }
    if err := gob.NewEncoder(f).Encode(m); err != nil {
        f.Close()
        return err
    }
    return f.Close()
}

func decodeGob(path string, v any) error {
    f, err := os.Open(path)
    if err != nil { return err }
    defer f.Close()
    if err := gob.NewDecoder(bufio.NewReader(f)).Decode(v); err != nil {
        return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
    }
    return nil
}

func checkTrees(trees []*DecisionTree) error {
    if len(trees) == 0 { return ErrEmptyArtifact }
    for i, t := range trees {
        if t == nil || t.Root == nil { return fmt.Errorf("tree %d is empty", i) }
    }
    return nil
}

func checkLightGBMModel(path string) error {
    f, err := os.Open(path)
    if err != nil { return err }
    defer f.Close()
    sc := bufio.NewScanner(f)
    if !sc.Scan() || strings.TrimSpace(sc.Text()) != "tree" {
        return fmt.Errorf("%s is not a LightGBM text model", filepath.Base(path))
    }
    return nil
}
