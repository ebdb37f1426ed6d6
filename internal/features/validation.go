package features

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed its range or enum check.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var fieldLabels = map[string]string{
	"pregnancies":   "pregnancy count",
	"glucose":       "blood glucose",
	"bloodPressure": "blood pressure",
	"skinThickness": "skin fold thickness",
	"insulin":       "insulin level",
	"bmi":           "body mass index",
	"pedigree":      "genetic score",
	"age":           "age",
	"weightKg":      "weight",
	"heightCm":      "height",
	"familyHistory": "family history",
	"activity":      "physical activity",
	"diet":          "diet type",
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func defaultEngine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New()
		engine.SetTagName("binding")
		if err := RegisterValidations(engine); err != nil {
			panic(err)
		}
	})
	return engine
}

// RegisterValidations installs the category validators and json field naming
// on v. The HTTP layer calls it on gin's binding engine so request binding and
// Validate agree.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	categories := map[string]func(string) error{
		"family_history": func(s string) error { _, err := ParseFamilyHistory(s); return err },
		"activity":       func(s string) error { _, err := ParseActivity(s); return err },
		"diet":           func(s string) error { _, err := ParseDiet(s); return err },
	}
	for tag, parse := range categories {
		parse := parse
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return parse(fl.Field().String()) == nil
		}); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func validate(in any) error {
	err := defaultEngine().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

// NewValidationError converts validator output into readable field messages.
func NewValidationError(verrs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "family_history":
		return fmt.Sprintf("%s must be one of %s", label, joinOptions(FamilyHistories))
	case "activity":
		return fmt.Sprintf("%s must be one of %s", label, joinOptions(Activities))
	case "diet":
		return fmt.Sprintf("%s must be one of %s", label, joinOptions(Diets))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func joinOptions[T ~string](opts []T) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = fmt.Sprintf("%q", string(o))
	}
	return strings.Join(parts, ", ")
}
