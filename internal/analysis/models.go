package analysis

// SeriesSummary holds the statistics reported for one series.
type SeriesSummary struct {
	Label      string
	Samples    int // rows in the dataset
	Missing    int // NaN or infinite samples
	Min        float64
	Max        float64
	Mean       float64
	Final      float64 // last finite value, NaN if none
	FinalIndex int     // index of Final, -1 if none
}

// Valid returns the number of finite samples.
func (s SeriesSummary) Valid() int {
	return s.Samples - s.Missing
}
