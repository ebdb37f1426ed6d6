package features

// Positions of the feature vector. The classifier has no field names, only
// positional semantics, so this order must match the trained artifact.
const (
	Pregnancies = iota
	Glucose
	BloodPressure
	SkinThickness
	Insulin
	BMIIndex
	Pedigree
	Age

	Width
)

// FeatureVector is the ordered input of the classifier.
type FeatureVector [Width]float64

var schemaNames = [Width]string{
	"pregnancies",
	"glucose",
	"blood_pressure",
	"skin_thickness",
	"insulin",
	"bmi",
	"pedigree",
	"age",
}

// Names returns the schema field names in positional order.
func Names() []string {
	out := make([]string, Width)
	copy(out, schemaNames[:])
	return out
}

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, Width)
	copy(out, v[:])
	return out
}
