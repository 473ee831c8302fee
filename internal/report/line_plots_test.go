package report

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"

	"github.com/user/dataplot_go/internal/parser"
)

func extendedScenario() *parser.Dataset {
	ds := parser.NewDataset(parser.VariantExtended)
	ds.Indices = []int{0, 1, 2}
	ds.Series[0].Values = []float64{1.0, math.NaN(), 3.0}
	ds.Series[1].Values = []float64{2.0, 2.5, math.NaN()}
	return ds
}

func simpleScenario() *parser.Dataset {
	ds := parser.NewDataset(parser.VariantSimple)
	ds.Indices = []int{0, 1}
	ds.Series[0].Values = []float64{5.0, 6.0}
	return ds
}

func requireValidPNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Greater(t, img.Bounds().Dy(), 0)
}

func TestRenderExtendedScenario(t *testing.T) {
	out := filepath.Join(t.TempDir(), OutputFile)
	ds := extendedScenario()

	img, err := Render(ds, out)
	require.NoError(t, err)
	assert.NotEmpty(t, img)
	requireValidPNG(t, out)

	fig, err := BuildFigure(ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Global Best", "Pop Avg Best"}, fig.Legend())
}

func TestRenderSimpleScenarioHasNoLegend(t *testing.T) {
	out := filepath.Join(t.TempDir(), OutputFile)
	ds := simpleScenario()

	_, err := Render(ds, out)
	require.NoError(t, err)
	requireValidPNG(t, out)

	fig, err := BuildFigure(ds)
	require.NoError(t, err)
	assert.Empty(t, fig.Legend())
}

func TestRenderIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, OutputFile)
	ds := extendedScenario()

	first, err := Render(ds, out)
	require.NoError(t, err)
	second, err := Render(ds, out)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "rendering the same data twice should give identical images")

	onDisk, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(second, onDisk))
}

func TestRenderEmptyDataset(t *testing.T) {
	for _, v := range []parser.Variant{parser.VariantSimple, parser.VariantExtended} {
		t.Run(string(v), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), OutputFile)

			_, err := Render(parser.NewDataset(v), out)
			require.NoError(t, err)
			requireValidPNG(t, out)
		})
	}
}

func TestRenderOverwritesExistingFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), OutputFile)
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))

	_, err := Render(simpleScenario(), out)
	require.NoError(t, err)
	requireValidPNG(t, out)
}

func TestRenderUnwritableDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", OutputFile)

	_, err := Render(simpleScenario(), out)

	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, out, re.Path)
}

func TestRenderAllMissingSeries(t *testing.T) {
	ds := parser.NewDataset(parser.VariantExtended)
	ds.Indices = []int{0, 1}
	ds.Series[0].Values = []float64{math.NaN(), math.NaN()}
	ds.Series[1].Values = []float64{math.Inf(1), 4.0}

	_, err := Render(ds, filepath.Join(t.TempDir(), OutputFile))
	require.NoError(t, err)
}

func TestFiniteSegments(t *testing.T) {
	nan := math.NaN()
	segs := finiteSegments([]int{0, 1, 2, 3, 4, 5}, []float64{1, 2, nan, 4, nan, 6})

	require.Len(t, segs, 3)
	assert.Len(t, segs[0], 2)
	assert.Equal(t, 4.0, segs[1][0].Y)
	assert.Equal(t, 3.0, segs[1][0].X)
	assert.Equal(t, 5.0, segs[2][0].X)

	assert.Empty(t, finiteSegments(nil, nil))
}

func TestFigureRejectsRaggedSeries(t *testing.T) {
	fig := NewFigure(TitleSimple)
	err := fig.AddSeries([]int{0, 1}, parser.Series{Values: []float64{1}}, SeriesStyle{})
	assert.Error(t, err)
}

func TestFiguresDoNotShareState(t *testing.T) {
	a, err := BuildFigure(extendedScenario())
	require.NoError(t, err)
	b, err := BuildFigure(simpleScenario())
	require.NoError(t, err)

	assert.Len(t, a.Legend(), 2)
	assert.Empty(t, b.Legend())
}

func TestTitleFor(t *testing.T) {
	assert.Equal(t, "Visualization of Data", TitleFor(parser.VariantSimple))
	assert.Equal(t, "Visualization of One or Two Data Sets", TitleFor(parser.VariantExtended))
}

func TestRenderExtremeValueRanges(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		values  []float64
		wantErr bool
	}{
		{"small constant", []int{0, 1}, []float64{5, 5}, false},
		{"large constant", []int{0, 1}, []float64{1e16, 1e16}, false},
		{"tiny constant", []int{0, 1}, []float64{1e-300, 1e-300}, false},
		{"wide symmetric", []int{0, 1}, []float64{1e300, -1e300}, false},
		{"large single index", []int{1 << 60}, []float64{3}, false},
		{"near float max constant", []int{0, 1}, []float64{1.7e308, 1.7e308}, true},
		{"span overflows", []int{0, 1}, []float64{1e308, -1e308}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := parser.NewDataset(parser.VariantSimple)
			ds.Indices = tt.indices
			ds.Series[0].Values = tt.values
			out := filepath.Join(t.TempDir(), OutputFile)

			_, err := Render(ds, out)
			if !tt.wantErr {
				require.NoError(t, err)
				requireValidPNG(t, out)
				return
			}
			var re *RenderError
			require.True(t, errors.As(err, &re))
			assert.ErrorIs(t, err, ErrRangeTooLarge)
			assert.NoFileExists(t, out)
		})
	}
}

func TestFitAxisPadsFlatRanges(t *testing.T) {
	fig := NewFigure(TitleSimple)

	require.NoError(t, fitAxis(&fig.plot.Y, extent{min: 1e16, max: 1e16, ok: true}, "value"))
	assert.Less(t, fig.plot.Y.Min, 1e16)
	assert.Greater(t, fig.plot.Y.Max, 1e16)

	require.NoError(t, fitAxis(&fig.plot.X, extent{min: 4, max: 4, ok: true}, "index"))
	assert.Equal(t, 3.0, fig.plot.X.Min)
	assert.Equal(t, 5.0, fig.plot.X.Max)
}

func TestPNGRecoversFromPlotPanic(t *testing.T) {
	fig := NewFigure(TitleSimple)
	fig.plot.Y.Tick.Marker = plot.DefaultTicks{}
	fig.plot.Y.Min, fig.plot.Y.Max = 1e17, 1e17

	_, err := fig.PNG(DefaultWidth, DefaultHeight)
	assert.Error(t, err)
}
