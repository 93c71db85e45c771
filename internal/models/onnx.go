package models

import (
    "encoding/json"
    "fmt"
    "os"
    "strings"
    "sync"

    ort "github.com/yalue/onnxruntime_go"
)

// ONNXMetadata describes an exported classifier. It lives next to the model
// as <model>.json.
type ONNXMetadata struct {
    InputName   string   `json:"input_name"`
    OutputName  string   `json:"output_name"`
    NumFeatures int64    `json:"num_features"`
    Classes     []string `json:"classes"`
    // FraudIndex is the position of the fraud class in the probability output.
    FraudIndex int `json:"fraud_index"`
}

var (
    ortOnce sync.Once
    ortErr  error
)

func initONNX(libPath string) error {
    ortOnce.Do(func() {
        if libPath != "" { ort.SetSharedLibraryPath(libPath) }
        ortErr = ort.InitializeEnvironment()
    })
    return ortErr
}

// ONNXClassifier runs one row at a time through a [1, NumFeatures] input
// tensor and reads a [1, len(Classes)] probability tensor.
type ONNXClassifier struct {
    Metadata ONNXMetadata

    mu           sync.Mutex
    session      *ort.AdvancedSession
    inputTensor  *ort.Tensor[float32]
    outputTensor *ort.Tensor[float32]
}

func metadataPath(modelPath string) string {
    return strings.TrimSuffix(modelPath, ".onnx") + ".json"
}

func OpenONNX(modelPath, libPath string) (*ONNXClassifier, error) {
    if _, err := os.Stat(modelPath); err != nil { return nil, err }

    metaFile, err := os.ReadFile(metadataPath(modelPath))
    if err != nil {
        return nil, fmt.Errorf("failed to read metadata: %w", err)
    }
    var meta ONNXMetadata
    if err := json.Unmarshal(metaFile, &meta); err != nil {
        return nil, fmt.Errorf("failed to parse metadata: %w", err)
    }
    if meta.InputName == "" { meta.InputName = "input" }
    if meta.OutputName == "" { meta.OutputName = "probabilities" }
    if len(meta.Classes) == 0 { meta.Classes = []string{"0", "1"} }
    if meta.NumFeatures <= 0 {
        return nil, fmt.Errorf("metadata num_features must be positive")
    }
    if meta.FraudIndex < 0 || meta.FraudIndex >= len(meta.Classes) {
        return nil, fmt.Errorf("metadata fraud_index %d outside %d classes", meta.FraudIndex, len(meta.Classes))
    }

    if err := initONNX(libPath); err != nil {
        return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
    }

    inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, meta.NumFeatures))
    if err != nil {
        return nil, fmt.Errorf("failed to create input tensor: %w", err)
    }
    outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(meta.Classes))))
    if err != nil {
        inputTensor.Destroy()
        return nil, fmt.Errorf("failed to create output tensor: %w", err)
    }
    session, err := ort.NewAdvancedSession(modelPath,
        []string{meta.InputName}, []string{meta.OutputName},
        []ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
        nil)
    if err != nil {
        inputTensor.Destroy()
        outputTensor.Destroy()
        return nil, fmt.Errorf("failed to create ONNX session: %w", err)
    }

    return &ONNXClassifier{
        Metadata:     meta,
        session:      session,
        inputTensor:  inputTensor,
        outputTensor: outputTensor,
    }, nil
}

func (o *ONNXClassifier) Name() string { return "ONNX" }

func (o *ONNXClassifier) Predict(X [][]float64) ([]int, error) { return predictWith(o, X) }

func (o *ONNXClassifier) PredictProba(X [][]float64) ([]float64, error) {
    o.mu.Lock()
    defer o.mu.Unlock()
    if o.session == nil { return nil, fmt.Errorf("onnx session is closed") }

    out := make([]float64, len(X))
    in := o.inputTensor.GetData()
    for i, x := range X {
        if int64(len(x)) != o.Metadata.NumFeatures {
            return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(x), o.Metadata.NumFeatures)
        }
        for j, v := range x { in[j] = float32(v) }
        if err := o.session.Run(); err != nil {
            return nil, fmt.Errorf("inference failed: %w", err)
        }
        out[i] = float64(o.outputTensor.GetData()[o.Metadata.FraudIndex])
    }
    return out, nil
}

// Close releases the session and tensors. The shared environment stays up.
func (o *ONNXClassifier) Close() error {
    o.mu.Lock()
    defer o.mu.Unlock()
    if o.inputTensor != nil { o.inputTensor.Destroy(); o.inputTensor = nil }
    if o.outputTensor != nil { o.outputTensor.Destroy(); o.outputTensor = nil }
    if o.session != nil {
        err := o.session.Destroy()
        o.session = nil
        return err
    }
    return nil
}
