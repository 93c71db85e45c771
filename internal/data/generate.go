package data

import (
    "encoding/csv"
    "fmt"
    "io"
    "math/rand"
    "os"
    "path/filepath"
)

// Shifts applied to a fraudulent row, by component index (V4, V10, V12,
// V14, V17). V2 is pushed up separately.
var fraudShift = []struct {
    idx   int
    shift float64
}{
    {3, 4.5},
    {9, -3.0},
    {11, -5.0},
    {13, -7.0},
    {16, -6.0},
}

// Sample draws n synthetic transactions. About fraudRate of them are fraud.
// The same seed gives the same rows.
func Sample(n int, fraudRate float64, seed int64) []Transaction {
    rng := rand.New(rand.NewSource(seed))
    out := make([]Transaction, n)
    clock := 0.0
    for i := range out {
        var t Transaction
        clock += rng.ExpFloat64() * 20
        t.Time = float64(int(clock))
        for j := range t.V { t.V[j] = rng.NormFloat64() }

        t.Amount = rng.ExpFloat64() * 88
        if rng.Float64() < 0.25 { t.Amount = float64(int(t.Amount)) }

        if rng.Float64() < fraudRate {
            t.Fraud = true
            for _, fs := range fraudShift { t.V[fs.idx] += fs.shift + rng.NormFloat64() }
            t.V[1] += 3
            // card testing: tiny or round amounts
            if rng.Float64() < 0.5 {
                t.Amount = float64(1 + rng.Intn(3))
            } else {
                t.Amount = float64(5 * (1 + rng.Intn(100)))
            }
        }
        out[i] = t
    }
    return out
}

// GenerateSample writes n synthetic transactions as a 30-column CSV with a
// header row.
func GenerateSample(w io.Writer, n int, fraudRate float64, seed int64) error {
    if n < 0 { return fmt.Errorf("row count must not be negative, got %d", n) }
    if fraudRate < 0 || fraudRate > 1 { return fmt.Errorf("fraud rate %v outside [0, 1]", fraudRate) }

    cw := csv.NewWriter(w)
    if err := cw.Write(Header()); err != nil { return err }
    for _, t := range Sample(n, fraudRate, seed) {
        if err := cw.Write(t.Record()); err != nil { return err }
    }
    cw.Flush()
    return cw.Error()
}

// WriteSampleFile is GenerateSample into outPath, creating its directory.
func WriteSampleFile(outPath string, n int, fraudRate float64, seed int64) error {
    if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
        return err
    }
    f, err := os.Create(outPath)
    if err != nil {
        return err
    }
    if err := GenerateSample(f, n, fraudRate, seed); err != nil {
        f.Close()
        return err
    }
    return f.Close()
}
