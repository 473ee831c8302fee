package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/user/dataplot_go/internal/parser"
)

const (
	// OutputFile is where the CLI always writes the chart.
	OutputFile = "visualization.png"

	TitleSimple   = "Visualization of Data"
	TitleExtended = "Visualization of One or Two Data Sets"

	DefaultWidth  = 6.4 * vg.Inch
	DefaultHeight = 4.8 * vg.Inch
)

var seriesColors = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 255}, // Blue
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 255}, // Orange
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 255}, // Green
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 255}, // Red
}

// Hollow circle for the first series, cross for the second.
var seriesMarkers = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.CrossGlyph{},
}

// TitleFor returns the chart title used for a variant.
func TitleFor(v parser.Variant) string {
	if v == parser.VariantSimple {
		return TitleSimple
	}
	return TitleExtended
}

// SeriesStyle controls how one series is drawn.
type SeriesStyle struct {
	Color  color.Color
	Marker draw.GlyphDrawer // nil draws the line only
}

type legendEntry struct {
	label  string
	thumbs []plot.Thumbnailer
}

// Figure is a single chart under construction. Each Figure owns its plot,
// so building several charts in one process never shares state.
type Figure struct {
	plot    *plot.Plot
	entries []legendEntry
	legend  []string
}

// NewFigure creates an empty chart with the standard axis labels.
func NewFigure(title string) *Figure {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Index"
	p.Y.Label.Text = "Value"
	p.Legend.Top = true
	p.Legend.XOffs = -vg.Points(5)
	return &Figure{plot: p}
}

// finiteSegments splits a series at NaN/Inf samples. The plotter rejects
// non-finite points, and a gap is how missing samples should look anyway.
func finiteSegments(indices []int, values []float64) []plotter.XYs {
	var segments []plotter.XYs
	var current plotter.XYs
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: float64(indices[i]), Y: v})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

// AddSeries draws s against indices.
func (f *Figure) AddSeries(indices []int, s parser.Series, style SeriesStyle) error {
	if len(indices) != len(s.Values) {
		return fmt.Errorf("series %q has %d values for %d indices", s.Label, len(s.Values), len(indices))
	}
	if style.Color == nil {
		style.Color = seriesColors[len(f.entries)%len(seriesColors)]
	}

	lineStyle := draw.LineStyle{Color: style.Color, Width: vg.Points(1.5)}
	glyphStyle := draw.GlyphStyle{Color: style.Color, Radius: vg.Points(3), Shape: style.Marker}

	var points plotter.XYs
	for _, seg := range finiteSegments(indices, s.Values) {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return fmt.Errorf("failed to create line for %q: %w", s.Label, err)
		}
		line.LineStyle = lineStyle
		f.plot.Add(line)
		points = append(points, seg...)
	}

	// Legend thumbnails are drawn from style only, so an empty series still
	// gets an entry.
	thumbLine, err := plotter.NewLine(plotter.XYs{})
	if err != nil {
		return fmt.Errorf("failed to create legend line for %q: %w", s.Label, err)
	}
	thumbLine.LineStyle = lineStyle
	thumbs := []plot.Thumbnailer{thumbLine}

	if style.Marker != nil {
		if len(points) > 0 {
			scatter, err := plotter.NewScatter(points)
			if err != nil {
				return fmt.Errorf("failed to create markers for %q: %w", s.Label, err)
			}
			scatter.GlyphStyle = glyphStyle
			f.plot.Add(scatter)
		}
		thumbScatter, err := plotter.NewScatter(plotter.XYs{})
		if err != nil {
			return fmt.Errorf("failed to create legend marker for %q: %w", s.Label, err)
		}
		thumbScatter.GlyphStyle = glyphStyle
		thumbs = append(thumbs, thumbScatter)
	}

	f.entries = append(f.entries, legendEntry{label: s.Label, thumbs: thumbs})
	return nil
}

// ShowLegend adds every series added so far to the legend. Call it once,
// after the last AddSeries.
func (f *Figure) ShowLegend() {
	for _, e := range f.entries {
		f.plot.Legend.Add(e.label, e.thumbs...)
		f.legend = append(f.legend, e.label)
	}
	f.entries = nil
}

// Legend returns the labels shown in the legend, empty if there is none.
func (f *Figure) Legend() []string {
	return f.legend
}

// PNG encodes the chart. A panic inside the plotting library is returned
// as an error.
func (f *Figure) PNG(width, height vg.Length) (img []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("failed to draw plot: %v", r)
		}
	}()

	writer, err := f.plot.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	buf := new(bytes.Buffer)
	if _, err := writer.WriteTo(buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildFigure lays out every series of ds. Markers and a legend are only
// used when there is more than one series.
func BuildFigure(ds *parser.Dataset) (*Figure, error) {
	if ds == nil {
		return nil, fmt.Errorf("no dataset to plot")
	}
	fig := NewFigure(TitleFor(ds.Variant))
	multi := len(ds.Series) > 1

	for i, s := range ds.Series {
		style := SeriesStyle{Color: seriesColors[i%len(seriesColors)]}
		if multi {
			style.Marker = seriesMarkers[i%len(seriesMarkers)]
		}
		if err := fig.AddSeries(ds.Indices, s, style); err != nil {
			return nil, err
		}
	}
	if multi {
		fig.ShowLegend()
	}
	if err := fig.fitAxes(ds); err != nil {
		return nil, err
	}
	return fig, nil
}

// extent tracks the finite range of plotted coordinates on one axis.
type extent struct {
	min, max float64
	ok       bool
}

func (e *extent) add(v float64) {
	if !e.ok {
		e.min, e.max, e.ok = v, v, true
		return
	}
	e.min = math.Min(e.min, v)
	e.max = math.Max(e.max, v)
}

// fitAxes fixes the axis ranges where the plotting library's own handling
// breaks down: a span too small to survive its ±1 padding at large
// magnitudes, or a span that does not fit in a float64.
func (f *Figure) fitAxes(ds *parser.Dataset) error {
	var xs, ys extent
	for _, s := range ds.Series {
		for i, v := range s.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			xs.add(float64(ds.Indices[i]))
			ys.add(v)
		}
	}
	if err := fitAxis(&f.plot.X, xs, "index"); err != nil {
		return err
	}
	return fitAxis(&f.plot.Y, ys, "value")
}

const (
	// Tick placement overflows for axis bounds much beyond this.
	maxAxisMagnitude = 1e306
	// Relative span below which an axis is treated as flat.
	flatSpan = 1e-9
)

func fitAxis(a *plot.Axis, e extent, name string) error {
	if !e.ok {
		return nil
	}
	magnitude := math.Max(math.Abs(e.min), math.Abs(e.max))
	lo, hi := e.min, e.max
	if hi-lo <= magnitude*flatSpan {
		pad := math.Max(magnitude*0.05, 1)
		lo, hi = lo-pad, hi+pad
	}
	if math.Abs(lo) > maxAxisMagnitude || math.Abs(hi) > maxAxisMagnitude || !(hi > lo) {
		return fmt.Errorf("%w: %s axis spans [%g, %g]", ErrRangeTooLarge, name, e.min, e.max)
	}
	a.Min, a.Max = lo, hi
	return nil
}

// Render draws ds and writes it as a PNG to outputPath, replacing any
// existing file. The encoded image is returned for reuse (PDF export).
func Render(ds *parser.Dataset, outputPath string) ([]byte, error) {
	fig, err := BuildFigure(ds)
	if err != nil {
		return nil, &RenderError{Path: outputPath, Err: err}
	}
	img, err := fig.PNG(DefaultWidth, DefaultHeight)
	if err != nil {
		return nil, &RenderError{Path: outputPath, Err: err}
	}
	if err := os.WriteFile(outputPath, img, 0644); err != nil {
		return nil, &RenderError{Path: outputPath, Err: err}
	}
	return img, nil
}
