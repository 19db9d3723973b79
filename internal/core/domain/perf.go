package domain

// Sex identifies the sex a performance row applies to.
type Sex string

// Sexes. Many published tables report only mixed-sex curves, so
// SexAsHatched doubles as the relaxation target for male/female misses.
const (
	SexMale      Sex = "male"
	SexFemale    Sex = "female"
	SexAsHatched Sex = "as_hatched"
)

// Unit identifies the measurement system of a performance row.
type Unit string

// Units.
const (
	UnitMetric   Unit = "metric"
	UnitImperial Unit = "imperial"
)

// PerformanceRecord is one row of tabular performance-target data,
// keyed by (line, sex, unit, age in days). Immutable after load.
type PerformanceRecord struct {
	// Line is the canonicalized commercial line slug (e.g. "cobb500").
	Line string

	// Sex the row applies to.
	Sex Sex

	// Unit system of the row.
	Unit Unit

	// AgeDays is the bird age in days.
	AgeDays int

	// WeightG is the target body weight in grams, zero when absent.
	WeightG float64

	// WeightLb is the target body weight in pounds, zero when absent.
	WeightLb float64

	// DailyGainG is the target daily gain in grams, zero when absent.
	DailyGainG float64

	// CumFCR is the cumulative feed conversion ratio, zero when absent.
	CumFCR float64

	// SourceDoc is the originating document, empty when unknown.
	SourceDoc string

	// Page is the source page, zero when unknown.
	Page int
}
