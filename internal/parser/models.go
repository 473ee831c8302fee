package parser

import "fmt"

// NaNSentinel is the token the optimizer logs write for a missing sample.
const NaNSentinel = "nan"

// Variant selects the expected line shape of the input file.
type Variant string

const (
	// VariantSimple expects exactly two tokens per line: index and value.
	VariantSimple Variant = "simple"
	// VariantExtended expects at least three tokens: index and two values.
	VariantExtended Variant = "extended"
)

// ShortLinePolicy decides what happens to a line whose token count does not
// match the variant.
type ShortLinePolicy string

const (
	// PolicyDefault defers to the variant (simple fails, extended skips).
	PolicyDefault ShortLinePolicy = ""
	// PolicySkip drops the line silently.
	PolicySkip ShortLinePolicy = "skip"
	// PolicyFail aborts the load with a *ParseError.
	PolicyFail ShortLinePolicy = "fail"
)

// ExtendedLabels are the series labels of the extended variant, in column order.
var ExtendedLabels = []string{"Global Best", "Pop Avg Best"}

// Options configures Load and Parse.
type Options struct {
	Variant    Variant
	ShortLines ShortLinePolicy
}

// DefaultOptions reads the extended format with the variant's default policy.
func DefaultOptions() Options {
	return Options{Variant: VariantExtended}
}

// ParseVariant converts a flag/config value to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantSimple, VariantExtended:
		return Variant(s), nil
	case "":
		return VariantExtended, nil
	}
	return "", fmt.Errorf("invalid variant: %s (must be simple or extended)", s)
}

// ParseShortLinePolicy converts a flag/config value to a ShortLinePolicy.
func ParseShortLinePolicy(s string) (ShortLinePolicy, error) {
	switch ShortLinePolicy(s) {
	case PolicyDefault, PolicySkip, PolicyFail:
		return ShortLinePolicy(s), nil
	}
	return "", fmt.Errorf("invalid short-line policy: %s (must be skip or fail)", s)
}

// Policy resolves PolicyDefault against the variant.
func (o Options) Policy() ShortLinePolicy {
	if o.ShortLines != PolicyDefault {
		return o.ShortLines
	}
	if o.variant() == VariantSimple {
		return PolicyFail
	}
	return PolicySkip
}

func (o Options) variant() Variant {
	if o.Variant == "" {
		return VariantExtended
	}
	return o.Variant
}

// valueColumns is the number of value tokens read after the index.
func (v Variant) valueColumns() int {
	if v == VariantSimple {
		return 1
	}
	return 2
}

// accepts reports whether a line with n tokens has the variant's shape.
func (v Variant) accepts(n int) bool {
	if v == VariantSimple {
		return n == 2
	}
	return n >= 3
}

// Series is one value column plotted against the shared index.
type Series struct {
	Label  string
	Values []float64
}

// Dataset holds everything read from one input file, in file order.
// len(Indices) equals len(Values) of every series.
type Dataset struct {
	Variant Variant
	Indices []int
	Series  []Series
}

// NewDataset creates an empty dataset with one series per value column.
func NewDataset(v Variant) *Dataset {
	ds := &Dataset{
		Variant: v,
		Indices: make([]int, 0),
	}
	if v == VariantSimple {
		ds.Series = []Series{{Values: make([]float64, 0)}}
		return ds
	}
	for _, label := range ExtendedLabels {
		ds.Series = append(ds.Series, Series{Label: label, Values: make([]float64, 0)})
	}
	return ds
}

// Len returns the number of recorded rows.
func (d *Dataset) Len() int {
	return len(d.Indices)
}

func (d *Dataset) appendRow(index int, values []float64) {
	d.Indices = append(d.Indices, index)
	for i := range d.Series {
		d.Series[i].Values = append(d.Series[i].Values, values[i])
	}
}
