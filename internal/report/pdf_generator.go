package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/dataplot_go/internal/analysis"
	"github.com/user/dataplot_go/internal/parser"
)

// Page geometry in millimetres, Letter portrait.
const (
	pageWidth  = 8.5 * 25.4
	pageHeight = 11 * 25.4
	pageMargin = 12.7
	bodyWidth  = pageWidth - 2*pageMargin
	rowHeight  = 6.0

	chartImageName = "chart"
)

type textStyle struct {
	face    string
	size    float64
	ink     [3]int
	shading []int // background for filled table cells
}

var (
	styleTitle   = textStyle{face: "B", size: 16}
	styleHeading = textStyle{face: "B", size: 13}
	styleBody    = textStyle{size: 10}
	styleColumn  = textStyle{face: "B", size: 9, shading: []int{200, 200, 200}}
	styleCell    = textStyle{size: 9, ink: [3]int{50, 50, 50}}
)

// pdfLayout flows blocks down the page and starts a new page when a block
// would cross the bottom margin.
type pdfLayout struct {
	doc *gofpdf.Fpdf
	y   float64
}

func newPDFLayout() *pdfLayout {
	doc := gofpdf.New("P", "mm", "Letter", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(false, pageMargin)
	doc.AddPage()
	return &pdfLayout{doc: doc, y: pageMargin}
}

func (l *pdfLayout) use(st textStyle) {
	l.doc.SetFont("Arial", st.face, st.size)
	l.doc.SetTextColor(st.ink[0], st.ink[1], st.ink[2])
	if len(st.shading) == 3 {
		l.doc.SetFillColor(st.shading[0], st.shading[1], st.shading[2])
	}
}

// reserve makes sure h millimetres fit below the cursor.
func (l *pdfLayout) reserve(h float64) {
	if l.y+h <= pageHeight-pageMargin {
		return
	}
	l.doc.AddPage()
	l.y = pageMargin
}

func (l *pdfLayout) gap(h float64) {
	l.reserve(h)
	l.y += h
}

func (l *pdfLayout) text(st textStyle, align, s string) {
	l.use(st)
	l.reserve(rowHeight)
	l.doc.SetXY(pageMargin, l.y)
	l.doc.MultiCell(bodyWidth, rowHeight, s, "", align, false)
	l.y = l.doc.GetY() + 1
}

// table draws a bordered grid; shares are fractions of the body width.
// The header row is repeated after a page break.
func (l *pdfLayout) table(header []string, shares []float64, rows [][]string) {
	line := func(st textStyle, cells []string) {
		l.use(st)
		x := pageMargin
		for i, c := range cells {
			w := shares[i] * bodyWidth
			l.doc.SetXY(x, l.y)
			l.doc.CellFormat(w, rowHeight, c, "1", 0, "C", st.shading != nil, 0, "")
			x += w
		}
		l.y += rowHeight
	}

	l.reserve(2 * rowHeight)
	line(styleColumn, header)
	for _, r := range rows {
		if l.y+rowHeight > pageHeight-pageMargin {
			l.reserve(2 * rowHeight)
			line(styleColumn, header)
		}
		line(styleCell, r)
	}
}

// image places a PNG across the body width, keeping its aspect ratio.
func (l *pdfLayout) image(png []byte, aspect float64, caption string) {
	w := bodyWidth
	h := w * aspect
	l.doc.RegisterImageReader(chartImageName, "PNG", bytes.NewReader(png))
	l.reserve(h + rowHeight)
	l.doc.Image(chartImageName, pageMargin, l.y, w, h, false, "PNG", 0, "")
	l.y += h + 1
	if caption != "" {
		l.text(styleBody, "C", caption)
	}
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func seriesName(label string, i int) string {
	if label == "" {
		return fmt.Sprintf("Series %d", i+1)
	}
	return label
}

var summaryHeader = []string{"Series", "Samples", "Missing", "Min", "Max", "Mean", "Final (index)"}

var summaryShares = []float64{0.22, 0.1, 0.1, 0.13, 0.13, 0.13, 0.19}

// summaryRows turns series statistics into table cells.
func summaryRows(summaries []analysis.SeriesSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for i, sum := range summaries {
		final := formatStat(sum.Final)
		if sum.FinalIndex >= 0 {
			final = fmt.Sprintf("%s (%d)", final, sum.FinalIndex)
		}
		rows = append(rows, []string{
			seriesName(sum.Label, i),
			strconv.Itoa(sum.Samples),
			strconv.Itoa(sum.Missing),
			formatStat(sum.Min),
			formatStat(sum.Max),
			formatStat(sum.Mean),
			final,
		})
	}
	return rows
}

// BuildPDFReport writes a one-document summary of a dataset: source details,
// per-series statistics and the rendered chart.
func BuildPDFReport(filepath string, source string, ds *parser.Dataset,
	summaries []analysis.SeriesSummary, chartPNG []byte) error {

	title := TitleExtended
	variant := parser.VariantExtended
	rows := 0
	if ds != nil {
		variant = ds.Variant
		title = TitleFor(ds.Variant)
		rows = ds.Len()
	}

	l := newPDFLayout()
	l.text(styleTitle, "C", title)
	l.gap(4)
	l.text(styleBody, "L", fmt.Sprintf("Source: %s (%s variant, %d rows)", source, variant, rows))
	l.gap(4)

	l.text(styleHeading, "L", "Series Summary")
	if len(summaries) == 0 {
		l.text(styleBody, "L", "No series to summarize.")
	} else {
		l.table(summaryHeader, summaryShares, summaryRows(summaries))
	}
	l.gap(6)

	l.text(styleHeading, "L", "Chart")
	if len(chartPNG) == 0 {
		l.text(styleBody, "L", "Chart not available.")
	} else {
		l.image(chartPNG, float64(DefaultHeight/DefaultWidth), OutputFile)
	}

	if err := l.doc.OutputFileAndClose(filepath); err != nil {
		return &RenderError{Path: filepath, Err: err}
	}
	return nil
}
