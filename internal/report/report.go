package report

import (
	"fmt"
	"strconv"

	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/model"
)

type Variant string

const (
	VariantClinical  Variant = "clinical"
	VariantLifestyle Variant = "lifestyle"
)

// Level is the colour class of a block: success, warning, error or info.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

const (
	clinicalDisclaimer  = "This tool provides risk assessment based on machine learning. Always consult healthcare professionals for medical diagnosis and treatment."
	lifestyleDisclaimer = "This is a screening tool based on lifestyle factors. For accurate diagnosis, consult a doctor and get proper medical tests."
)

// Outcome is the label-specific advice block.
type Outcome struct {
	Alarm     bool     `json:"alarm"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	PlanTitle string   `json:"planTitle,omitempty"`
	Plan      []string `json:"plan,omitempty"`
}

// Card is one dashboard metric.
type Card struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Unit   string `json:"unit,omitempty"`
	Band   string `json:"band"`
	Status string `json:"status"`
	Level  Level  `json:"level"`
	Icon   string `json:"icon"`
}

// Report is everything shown after a submission.
type Report struct {
	Variant     Variant  `json:"variant"`
	Label       int      `json:"label"`
	Probability float64  `json:"probability"`
	Percent     string   `json:"percent"`
	Zone        Zone     `json:"zone,omitempty"`
	ZoneLevel   Level    `json:"zoneLevel,omitempty"`
	Outcome     Outcome  `json:"outcome"`
	Dashboard   []Card   `json:"dashboard,omitempty"`
	Tips        []string `json:"tips,omitempty"`
	BMI         float64  `json:"bmi,omitempty"`
	Disclaimer  string   `json:"disclaimer"`
}

var (
	clinicalAlarm = Outcome{
		Alarm:     true,
		Title:     "MEDICAL ATTENTION NEEDED",
		Message:   "High likelihood of diabetes detected",
		PlanTitle: "Immediate Action Plan",
		Plan: []string{
			"Consult physician immediately",
			"Monitor glucose levels daily",
			"Follow diabetic diet plan",
			"Start regular exercise routine",
		},
	}
	clinicalReassure = Outcome{
		Title:     "HEALTHY STATUS",
		Message:   "Low risk of diabetes",
		PlanTitle: "Preventive Care Plan",
		Plan: []string{
			"Maintain current lifestyle",
			"Annual health checkups",
			"Balanced diet & weight management",
			"Regular physical activity",
		},
	}
	lifestyleAlarm = Outcome{
		Alarm:   true,
		Title:   "Higher Risk Detected",
		Message: "Consider consulting a doctor for proper tests",
	}
	lifestyleReassure = Outcome{
		Title:   "Lower Risk Profile",
		Message: "Maintain your healthy lifestyle!",
	}
)

var zoneLevels = map[Zone]Level{
	ZoneHigh:     LevelError,
	ZoneModerate: LevelWarning,
	ZoneLow:      LevelSuccess,
}

// Clinical builds the full clinical report: zone banner, outcome block and
// the per-metric dashboard.
func Clinical(pred model.Prediction, in features.ClinicalInput) Report {
	out := clinicalReassure
	if pred.Label == 1 {
		out = clinicalAlarm
	}
	zone := RiskZone(pred.Probability)
	return Report{
		Variant:     VariantClinical,
		Label:       pred.Label,
		Probability: pred.Probability,
		Percent:     Percent(pred.Probability),
		Zone:        zone,
		ZoneLevel:   zoneLevels[zone],
		Outcome:     cloneOutcome(out),
		Dashboard:   Dashboard(in),
		Disclaimer:  clinicalDisclaimer,
	}
}

// Lifestyle builds the simplified report: probability, outcome and tips.
// It carries no zone banner.
func Lifestyle(pred model.Prediction, in features.LifestyleInput, d features.Derived) Report {
	out := lifestyleReassure
	if pred.Label == 1 {
		out = lifestyleAlarm
	}
	return Report{
		Variant:     VariantLifestyle,
		Label:       pred.Label,
		Probability: pred.Probability,
		Percent:     Percent(pred.Probability),
		Outcome:     cloneOutcome(out),
		Tips:        Tips(in, d.BMI),
		BMI:         features.RoundBMI(d.BMI),
		Disclaimer:  lifestyleDisclaimer,
	}
}

// Dashboard classifies glucose, BMI, blood pressure and age independently.
func Dashboard(in features.ClinicalInput) []Card {
	glucose := GlucoseBand(float64(in.Glucose))
	bmi := BMIBand(in.BMI)
	bp := BPBand(float64(in.BloodPressure))
	age := AgeBand(float64(in.Age))

	return []Card{
		statusCard("Glucose", strconv.Itoa(in.Glucose), "mg/dL", glucose, map[string]Level{
			GlucoseNormal: LevelSuccess, GlucosePrediabetic: LevelWarning, GlucoseDiabetic: LevelError,
		}),
		statusCard("BMI", strconv.FormatFloat(in.BMI, 'f', -1, 64), "", bmi, map[string]Level{
			BMIHealthy: LevelSuccess, BMIOverweight: LevelWarning, BMIObese: LevelError,
		}),
		statusCard("BP", strconv.Itoa(in.BloodPressure), "mmHg", bp, map[string]Level{
			BPNormal: LevelSuccess, BPElevated: LevelWarning, BPHigh: LevelError,
		}),
		{
			Metric: "Age",
			Value:  strconv.Itoa(in.Age),
			Unit:   "years",
			Band:   age,
			Status: title(age),
			Level:  LevelInfo,
			Icon:   ageIcons[age],
		},
	}
}

var (
	levelIcons = map[Level]string{
		LevelSuccess: "✅",
		LevelWarning: "⚠️",
		LevelError:   "🚨",
	}
	ageIcons = map[string]string{
		AgeYoung:  "👶",
		AgeMiddle: "👨",
		AgeSenior: "👴",
	}
)

func statusCard(metric, value, unit, band string, levels map[string]Level) Card {
	lvl := levels[band]
	return Card{
		Metric: metric,
		Value:  value,
		Unit:   unit,
		Band:   band,
		Status: title(band),
		Level:  lvl,
		Icon:   levelIcons[lvl],
	}
}

// Tips returns lifestyle advice for the answers that warrant it.
func Tips(in features.LifestyleInput, bmi float64) []string {
	var tips []string
	if in.Activity == features.ActivityRarely {
		tips = append(tips, "Start exercising regularly")
	}
	if in.Diet == features.DietHighFat || in.Diet == features.DietJunkFood {
		tips = append(tips, "Improve your diet")
	}
	if bmi > 25 {
		tips = append(tips, "Manage your weight")
	}
	return tips
}

// Percent formats a probability with one decimal, e.g. "85.0%".
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

func cloneOutcome(o Outcome) Outcome {
	o.Plan = append([]string(nil), o.Plan...)
	return o
}

func title(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
