// Package table holds the in-memory numeric table parsed from an upload and
// its CSV serialization.
package table

import (
    "fmt"
    "strconv"
)

// Table is an ordered set of numeric rows with named columns. Every row has
// len(Columns) values.
type Table struct {
    Columns []string
    Rows    [][]float64
    // HasHeader reports whether the column names came from the first record.
    HasHeader bool
}

func (t *Table) NumColumns() int { return len(t.Columns) }

func (t *Table) NumRows() int { return len(t.Rows) }

// Head returns a view of the first n rows.
func (t *Table) Head(n int) *Table {
    if n > len(t.Rows) { n = len(t.Rows) }
    if n < 0 { n = 0 }
    return &Table{Columns: t.Columns, Rows: t.Rows[:n], HasHeader: t.HasHeader}
}

// AppendColumns returns a new table with extra columns concatenated to the
// right of every row. values[i] holds the new cells of row i.
func (t *Table) AppendColumns(names []string, values [][]float64) (*Table, error) {
    if len(values) != len(t.Rows) {
        return nil, fmt.Errorf("append columns: %d value rows for %d table rows", len(values), len(t.Rows))
    }
    cols := make([]string, 0, len(t.Columns)+len(names))
    cols = append(cols, t.Columns...)
    cols = append(cols, names...)
    rows := make([][]float64, len(t.Rows))
    for i, r := range t.Rows {
        if len(values[i]) != len(names) {
            return nil, fmt.Errorf("append columns: row %d has %d values, want %d", i, len(values[i]), len(names))
        }
        row := make([]float64, 0, len(cols))
        row = append(row, r...)
        row = append(row, values[i]...)
        rows[i] = row
    }
    return &Table{Columns: cols, Rows: rows, HasHeader: true}, nil
}

// FormatCell renders a value the way Write does.
func FormatCell(v float64) string {
    return strconv.FormatFloat(v, 'g', -1, 64)
}

func defaultColumnNames(n int) []string {
    out := make([]string, n)
    for i := range out { out[i] = "feature_" + strconv.Itoa(i+1) }
    return out
}
