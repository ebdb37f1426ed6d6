package features

// ClinicalInput is the clinical form: one field per schema position, bounded
// by the ranges the form enforces.
type ClinicalInput struct {
	Pregnancies   int     `json:"pregnancies" form:"pregnancies" binding:"min=0,max=10"`
	Glucose       int     `json:"glucose" form:"glucose" binding:"min=50,max=300"`
	BloodPressure int     `json:"bloodPressure" form:"bloodPressure" binding:"min=40,max=120"`
	SkinThickness int     `json:"skinThickness" form:"skinThickness" binding:"min=10,max=60"`
	Insulin       int     `json:"insulin" form:"insulin" binding:"min=0,max=300"`
	BMI           float64 `json:"bmi" form:"bmi" binding:"min=15,max=50"`
	Pedigree      float64 `json:"pedigree" form:"pedigree" binding:"min=0,max=2"`
	Age           int     `json:"age" form:"age" binding:"min=20,max=80"`
}

// DefaultClinicalInput returns the values the clinical form is pre-filled with.
func DefaultClinicalInput() ClinicalInput {
	return ClinicalInput{
		Pregnancies:   0,
		Glucose:       100,
		BloodPressure: 70,
		SkinThickness: 25,
		Insulin:       100,
		BMI:           25.0,
		Pedigree:      0.5,
		Age:           30,
	}
}

// Vector returns the inputs verbatim in schema order.
func (in ClinicalInput) Vector() FeatureVector {
	var v FeatureVector
	v[Pregnancies] = float64(in.Pregnancies)
	v[Glucose] = float64(in.Glucose)
	v[BloodPressure] = float64(in.BloodPressure)
	v[SkinThickness] = float64(in.SkinThickness)
	v[Insulin] = float64(in.Insulin)
	v[BMIIndex] = in.BMI
	v[Pedigree] = in.Pedigree
	v[Age] = float64(in.Age)
	return v
}

// Validate checks every field against its range.
func (in ClinicalInput) Validate() error {
	return validate(in)
}

// ClinicalRequest is the clinical form as submitted over HTTP. Pointer
// fields tell a missing answer apart from a zero one.
type ClinicalRequest struct {
	Pregnancies   *int     `json:"pregnancies" form:"pregnancies" binding:"required,min=0,max=10"`
	Glucose       *int     `json:"glucose" form:"glucose" binding:"required,min=50,max=300"`
	BloodPressure *int     `json:"bloodPressure" form:"bloodPressure" binding:"required,min=40,max=120"`
	SkinThickness *int     `json:"skinThickness" form:"skinThickness" binding:"required,min=10,max=60"`
	Insulin       *int     `json:"insulin" form:"insulin" binding:"required,min=0,max=300"`
	BMI           *float64 `json:"bmi" form:"bmi" binding:"required,min=15,max=50"`
	Pedigree      *float64 `json:"pedigree" form:"pedigree" binding:"required,min=0,max=2"`
	Age           *int     `json:"age" form:"age" binding:"required,min=20,max=80"`
}

// Validate checks that every field is present and in range.
func (r ClinicalRequest) Validate() error {
	return validate(r)
}

// Input returns the submitted values. Missing fields come back as zero, so
// callers run Validate first.
func (r ClinicalRequest) Input() ClinicalInput {
	return ClinicalInput{
		Pregnancies:   deref(r.Pregnancies),
		Glucose:       deref(r.Glucose),
		BloodPressure: deref(r.BloodPressure),
		SkinThickness: deref(r.SkinThickness),
		Insulin:       deref(r.Insulin),
		BMI:           deref(r.BMI),
		Pedigree:      deref(r.Pedigree),
		Age:           deref(r.Age),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
