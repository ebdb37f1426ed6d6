package report

// Band is one classification rule: values strictly below Upper get Label.
type Band struct {
	Upper float64
	Label string
}

// Classify returns the label of the first band whose upper bound exceeds
// value, or fallback when none does. Bands must be sorted by Upper.
func Classify(value float64, bands []Band, fallback string) string {
	for _, b := range bands {
		if value < b.Upper {
			return b.Label
		}
	}
	return fallback
}

type Zone string

const (
	ZoneLow      Zone = "low"
	ZoneModerate Zone = "moderate"
	ZoneHigh     Zone = "high"
)

const (
	highZoneAbove     = 0.7
	moderateZoneAbove = 0.4
)

// RiskZone buckets a probability. Both cut points are exclusive: 0.7 is
// moderate and 0.4 is low.
func RiskZone(p float64) Zone {
	switch {
	case p > highZoneAbove:
		return ZoneHigh
	case p > moderateZoneAbove:
		return ZoneModerate
	default:
		return ZoneLow
	}
}

const (
	GlucoseNormal      = "normal"
	GlucosePrediabetic = "prediabetic"
	GlucoseDiabetic    = "diabetic"

	BMIHealthy    = "healthy"
	BMIOverweight = "overweight"
	BMIObese      = "obese"

	BPNormal   = "normal"
	BPElevated = "elevated"
	BPHigh     = "high"

	AgeYoung  = "young"
	AgeMiddle = "middle"
	AgeSenior = "senior"
)

var (
	glucoseBands = []Band{{100, GlucoseNormal}, {126, GlucosePrediabetic}}
	bmiBands     = []Band{{25, BMIHealthy}, {30, BMIOverweight}}
	bpBands      = []Band{{80, BPNormal}, {90, BPElevated}}
	ageBands     = []Band{{40, AgeYoung}, {60, AgeMiddle}}
)

func GlucoseBand(mgdl float64) string { return Classify(mgdl, glucoseBands, GlucoseDiabetic) }
func BMIBand(bmi float64) string      { return Classify(bmi, bmiBands, BMIObese) }
func BPBand(mmhg float64) string      { return Classify(mmhg, bpBands, BPHigh) }
func AgeBand(years float64) string    { return Classify(years, ageBands, AgeSenior) }
