package display

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/user/dataplot_go/internal/parser"
)

// ErrNothingToPreview is returned when no series has a finite sample.
var ErrNothingToPreview = errors.New("no finite samples to preview")

const (
	previewHeight = 15
	previewWidth  = 70
)

var previewColors = []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red}

// Preview writes a terminal line chart of every series in ds to w.
// Missing samples are left as gaps.
func Preview(w io.Writer, ds *parser.Dataset, caption string, colored bool) error {
	if ds == nil {
		return ErrNothingToPreview
	}

	data, colors := previewSeries(ds)
	if len(data) == 0 {
		return ErrNothingToPreview
	}

	opts := []asciigraph.Option{
		asciigraph.Height(previewHeight),
		asciigraph.Caption(caption),
	}
	if ds.Len() > previewWidth {
		opts = append(opts, asciigraph.Width(previewWidth))
	}
	if colored {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}

	if _, err := fmt.Fprintln(w, asciigraph.PlotMany(data, opts...)); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// previewSeries returns the plottable series of ds with Inf folded into NaN.
// Series without a finite sample are dropped; each kept series keeps the
// color of its column so the chart matches the PNG legend.
func previewSeries(ds *parser.Dataset) ([][]float64, []asciigraph.AnsiColor) {
	data := make([][]float64, 0, len(ds.Series))
	colors := make([]asciigraph.AnsiColor, 0, len(ds.Series))
	for col, s := range ds.Series {
		values := make([]float64, len(s.Values))
		finite := false
		for i, v := range s.Values {
			if math.IsInf(v, 0) {
				v = math.NaN()
			}
			values[i] = v
			finite = finite || !math.IsNaN(v)
		}
		if finite {
			data = append(data, values)
			colors = append(colors, previewColors[col%len(previewColors)])
		}
	}
	return data, colors
}
