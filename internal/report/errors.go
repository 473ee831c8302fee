package report

import (
	"errors"
	"fmt"
)

// ErrRangeTooLarge indicates the data spans more than an axis can represent.
var ErrRangeTooLarge = errors.New("data range cannot be plotted")

// RenderError is returned when a chart or report cannot be built or saved.
// A file partially written before the failure is left in place.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render %q: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
