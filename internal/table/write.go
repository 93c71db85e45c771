package table

import (
    "bytes"
    "encoding/csv"
    "io"
)

// Write serializes t as comma-separated text with a header row.
func Write(w io.Writer, t *Table) error {
    cw := csv.NewWriter(w)
    if err := cw.Write(t.Columns); err != nil { return err }
    rec := make([]string, len(t.Columns))
    for _, row := range t.Rows {
        for j, v := range row { rec[j] = FormatCell(v) }
        if err := cw.Write(rec); err != nil { return err }
    }
    cw.Flush()
    return cw.Error()
}

// Bytes is Write into a buffer.
func Bytes(t *Table) ([]byte, error) {
    var buf bytes.Buffer
    if err := Write(&buf, t); err != nil { return nil, err }
    return buf.Bytes(), nil
}
