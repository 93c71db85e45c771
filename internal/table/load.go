package table

import (
    "bytes"
    "encoding/csv"
    "errors"
    "fmt"
    "io"
    "math"
    "strconv"
    "strings"

    "github.com/gabriel-vasile/mimetype"
    "go.uber.org/multierr"
    "golang.org/x/text/encoding"
    "golang.org/x/text/encoding/unicode"
    "golang.org/x/text/transform"
)

// maxCellErrors caps how many bad cells one ParseError lists.
const maxCellErrors = 10

// Load reads r fully and parses it with Parse.
func Load(r io.Reader) (*Table, error) {
    data, err := io.ReadAll(r)
    if err != nil {
        return nil, &ParseError{Err: fmt.Errorf("read upload: %w", err)}
    }
    return Parse(data)
}

// Parse reads comma-separated text into a Table. The first record is taken as
// a header when any of its cells is not a number. All records must have the
// width of the first one, and every data cell must be a finite number.
func Parse(data []byte) (*Table, error) {
    if len(bytes.TrimSpace(data)) == 0 {
        return nil, &ParseError{Err: ErrEmpty}
    }
    if mt := mimetype.Detect(data); !isText(mt) {
        return nil, &ParseError{Err: fmt.Errorf("%w (detected %s)", ErrNotText, mt.String())}
    }
    text, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), data)
    if err != nil {
        return nil, &ParseError{Err: fmt.Errorf("decode upload: %w", err)}
    }

    r := csv.NewReader(bytes.NewReader(text))
    r.TrimLeadingSpace = true

    t := &Table{}
    var cellErrs error
    nBad := 0
    first := true
    for {
        rec, err := r.Read()
        if err == io.EOF { break }
        if err != nil { return nil, csvError(err, rec, len(t.Columns)) }
        line, _ := r.FieldPos(0)

        if first {
            first = false
            if isHeader(rec) {
                t.Columns = trimAll(rec)
                t.HasHeader = true
                continue
            }
            t.Columns = defaultColumnNames(len(rec))
        }

        row := make([]float64, len(rec))
        for j, cell := range rec {
            v, ok := parseCell(cell)
            if !ok {
                if nBad < maxCellErrors {
                    cellErrs = multierr.Append(cellErrs, &CellError{Line: line, Column: j + 1, Value: strings.TrimSpace(cell)})
                }
                nBad++
                continue
            }
            row[j] = v
        }
        t.Rows = append(t.Rows, row)
    }
    if cellErrs != nil {
        if nBad > maxCellErrors {
            cellErrs = multierr.Append(cellErrs, fmt.Errorf("%d more invalid cells", nBad-maxCellErrors))
        }
        return nil, &ParseError{Err: cellErrs}
    }
    if len(t.Columns) == 0 {
        return nil, &ParseError{Err: ErrEmpty}
    }
    return t, nil
}

func csvError(err error, rec []string, width int) error {
    var pe *csv.ParseError
    if !errors.As(err, &pe) {
        return &ParseError{Err: err}
    }
    if errors.Is(pe.Err, csv.ErrFieldCount) {
        return &ParseError{Line: pe.Line, Err: fmt.Errorf("expected %d fields, saw %d", width, len(rec))}
    }
    return &ParseError{Line: pe.Line, Err: pe.Err}
}

func isText(mt *mimetype.MIME) bool {
    for m := mt; m != nil; m = m.Parent() {
        if m.Is("text/plain") { return true }
    }
    return false
}

func isHeader(rec []string) bool {
    for _, cell := range rec {
        if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
            return true
        }
    }
    return false
}

func parseCell(s string) (float64, bool) {
    v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
    if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
        return 0, false
    }
    return v, true
}

func trimAll(rec []string) []string {
    out := make([]string, len(rec))
    for i, s := range rec { out[i] = strings.TrimSpace(s) }
    return out
}
