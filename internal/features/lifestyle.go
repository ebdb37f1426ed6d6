package features

import (
	"fmt"
	"math"
)

type FamilyHistory string

const (
	FamilyNone     FamilyHistory = "None"
	FamilyParents  FamilyHistory = "Parents"
	FamilySiblings FamilyHistory = "Siblings"
	FamilyBoth     FamilyHistory = "Both"
)

type Activity string

const (
	ActivityDaily    Activity = "Daily"
	ActivityFrequent Activity = "3-4 times/week"
	ActivityWeekly   Activity = "Once a week"
	ActivityRarely   Activity = "Rarely"
)

type Diet string

const (
	DietHealthy  Diet = "Healthy/Balanced"
	DietMixed    Diet = "Mixed"
	DietHighFat  Diet = "High Sugar/Fat"
	DietJunkFood Diet = "Junk Food"
)

// Option lists in the order the form presents them.
var (
	FamilyHistories = []FamilyHistory{FamilyNone, FamilyParents, FamilySiblings, FamilyBoth}
	Activities      = []Activity{ActivityDaily, ActivityFrequent, ActivityWeekly, ActivityRarely}
	Diets           = []Diet{DietHealthy, DietMixed, DietHighFat, DietJunkFood}
)

// Legacy derivation policy. These constants are carried over unchanged for
// output parity with the existing lifestyle form.
const (
	glucoseHigh   = 160
	glucoseNormal = 110

	bpOlder   = 85
	bpYounger = 75
	bpAgeCut  = 40

	skinOverweight = 35
	skinNormal     = 25
	skinBMICut     = 25.0

	insulinHigh       = 120
	insulinNormal     = 80
	insulinGlucoseCut = 140
)

var pedigreeByHistory = map[FamilyHistory]float64{
	FamilyNone:     0.3,
	FamilyParents:  0.6,
	FamilySiblings: 0.7,
	FamilyBoth:     0.9,
}

// LifestyleInput is the simplified form answered without medical tests.
type LifestyleInput struct {
	Age           int           `json:"age" form:"age" binding:"min=20,max=80"`
	WeightKg      int           `json:"weightKg" form:"weightKg" binding:"min=30,max=150"`
	HeightCm      int           `json:"heightCm" form:"heightCm" binding:"min=120,max=220"`
	FamilyHistory FamilyHistory `json:"familyHistory" form:"familyHistory" binding:"family_history"`
	Activity      Activity      `json:"activity" form:"activity" binding:"activity"`
	Diet          Diet          `json:"diet" form:"diet" binding:"diet"`
}

// DefaultLifestyleInput returns the values the lifestyle form is pre-filled with.
func DefaultLifestyleInput() LifestyleInput {
	return LifestyleInput{
		Age:           30,
		WeightKg:      70,
		HeightCm:      170,
		FamilyHistory: FamilyNone,
		Activity:      ActivityDaily,
		Diet:          DietHealthy,
	}
}

// Validate checks ranges and category membership.
func (in LifestyleInput) Validate() error {
	return validate(in)
}

// Derived is the outcome of mapping lifestyle answers onto the schema.
type Derived struct {
	BMI    float64       `json:"bmi"`
	Vector FeatureVector `json:"vector"`
}

// BMI returns weight(kg) / height(m)^2. A non-positive height yields 0.
func BMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

// RoundBMI rounds to one decimal, the precision the forms display.
func RoundBMI(bmi float64) float64 {
	return math.Round(bmi*10) / 10
}

// Derive maps lifestyle answers to approximate clinical values. It is pure:
// the same answers always produce the same vector.
func Derive(in LifestyleInput) Derived {
	bmi := BMI(float64(in.WeightKg), float64(in.HeightCm))

	glucose := glucoseNormal
	if in.Diet == DietJunkFood || in.Activity == ActivityRarely {
		glucose = glucoseHigh
	}

	bp := bpYounger
	if in.Age >= bpAgeCut {
		bp = bpOlder
	}

	skin := skinNormal
	if bmi >= skinBMICut {
		skin = skinOverweight
	}

	insulin := insulinNormal
	if glucose > insulinGlucoseCut {
		insulin = insulinHigh
	}

	var v FeatureVector
	v[Pregnancies] = 0
	v[Glucose] = float64(glucose)
	v[BloodPressure] = float64(bp)
	v[SkinThickness] = float64(skin)
	v[Insulin] = float64(insulin)
	v[BMIIndex] = bmi
	v[Pedigree] = pedigreeByHistory[in.FamilyHistory]
	v[Age] = float64(in.Age)

	return Derived{BMI: bmi, Vector: v}
}

func ParseFamilyHistory(s string) (FamilyHistory, error) {
	for _, f := range FamilyHistories {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown family history %q", s)
}

func ParseActivity(s string) (Activity, error) {
	for _, a := range Activities {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown activity %q", s)
}

func ParseDiet(s string) (Diet, error) {
	for _, d := range Diets {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown diet %q", s)
}
