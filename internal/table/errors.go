package table

import (
    "errors"
    "fmt"
)

var (
    ErrEmpty   = errors.New("no columns to parse from file")
    ErrNotText = errors.New("file is not delimited text")
)

// ParseError reports an upload that could not be read as a numeric table.
// Line is 1-based and zero when the problem is not tied to one line.
type ParseError struct {
    Line int
    Err  error
}

func (e *ParseError) Error() string {
    if e.Line > 0 {
        return fmt.Sprintf("line %d: %v", e.Line, e.Err)
    }
    return e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// CellError is a single cell that is not a number.
type CellError struct {
    Line   int
    Column int
    Value  string
}

func (e *CellError) Error() string {
    if e.Value == "" {
        return fmt.Sprintf("line %d, column %d: empty cell", e.Line, e.Column)
    }
    return fmt.Sprintf("line %d, column %d: could not convert %q to a number", e.Line, e.Column, e.Value)
}
