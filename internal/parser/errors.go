package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldCount indicates a line does not have the variant's token count.
	ErrFieldCount = errors.New("unexpected number of fields")
	// ErrBadIndex indicates the first token is not an integer.
	ErrBadIndex = errors.New("invalid index")
	// ErrBadValue indicates a value token is neither a number nor the NaN sentinel.
	ErrBadValue = errors.New("invalid value")
)

// FileAccessError is returned when the input file cannot be opened or read.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot read data file %q: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// ParseError is returned when a line does not conform to the expected shape.
type ParseError struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
