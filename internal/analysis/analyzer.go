package analysis

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/user/dataplot_go/internal/parser"
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Helper to calculate mean
func calculateMean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	return lo.Sum(data) / float64(len(data))
}

// summarizeSeries computes the summary of one series against the dataset index.
func summarizeSeries(indices []int, s parser.Series) SeriesSummary {
	sum := SeriesSummary{
		Label:      s.Label,
		Samples:    len(s.Values),
		Min:        math.NaN(),
		Max:        math.NaN(),
		Mean:       math.NaN(),
		Final:      math.NaN(),
		FinalIndex: -1,
	}

	valid := lo.Filter(s.Values, func(v float64, _ int) bool { return isFinite(v) })
	sum.Missing = len(s.Values) - len(valid)
	if len(valid) == 0 {
		return sum
	}

	sum.Min = lo.Min(valid)
	sum.Max = lo.Max(valid)
	sum.Mean = calculateMean(valid)

	for i := len(s.Values) - 1; i >= 0; i-- {
		if isFinite(s.Values[i]) {
			sum.Final = s.Values[i]
			sum.FinalIndex = indices[i]
			break
		}
	}
	return sum
}

// Summarize returns one summary per series, in series order.
func Summarize(ds *parser.Dataset) ([]SeriesSummary, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is nil, cannot summarize")
	}

	summaries := make([]SeriesSummary, 0, len(ds.Series))
	for i, s := range ds.Series {
		if len(s.Values) != len(ds.Indices) {
			return nil, fmt.Errorf("series %d has %d values for %d indices", i, len(s.Values), len(ds.Indices))
		}
		summaries = append(summaries, summarizeSeries(ds.Indices, s))
	}
	return summaries, nil
}
