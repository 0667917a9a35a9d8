package features

// Percentile lookup tables. These are tuning data, not logic: each table is a
// descending list of (score threshold, percentile) pairs. Lookup returns the
// percentile of the greatest threshold less than or equal to the score, or
// the table floor when the score is below every threshold.

type bracket struct {
	Threshold  float64
	Percentile float64
}

const tableFloor = 10.0

// Default percentiles when a score type is absent. Missing values must never
// reach downstream arithmetic.
const (
	defaultGraduateTestPct = 50.0
	defaultEnglishPct      = 75.0
)

// GRE brackets are keyed on the 260-340 total scale; verbal and quantitative
// sub-scores (130-170) are doubled before lookup.
var greBrackets = []bracket{
	{335, 99},
	{330, 94},
	{325, 88},
	{320, 80},
	{315, 70},
	{310, 60},
	{305, 50},
	{300, 40},
	{295, 32},
	{290, 25},
	{280, 15},
}

var gmatBrackets = []bracket{
	{760, 99},
	{740, 96},
	{720, 90},
	{700, 85},
	{680, 76},
	{650, 65},
	{620, 52},
	{600, 42},
	{550, 28},
	{500, 18},
}

var toeflBrackets = []bracket{
	{115, 95},
	{110, 90},
	{105, 84},
	{100, 75},
	{95, 66},
	{90, 56},
	{85, 46},
	{80, 38},
	{70, 22},
}

var ieltsBrackets = []bracket{
	{8.5, 95},
	{8.0, 89},
	{7.5, 80},
	{7.0, 69},
	{6.5, 55},
	{6.0, 41},
	{5.5, 26},
}

func lookupPercentile(table []bracket, score float64) float64 {
	for _, b := range table {
		if score >= b.Threshold {
			return b.Percentile
		}
	}
	return tableFloor
}
