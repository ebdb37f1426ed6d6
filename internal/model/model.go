package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/Skufu/diabetes-risk/internal/features"
)

const (
	KindLogistic     = "logistic_regression"
	KindTreeEnsemble = "tree_ensemble"

	DefaultPath      = "diabetes_model.json"
	defaultThreshold = 0.5
)

var (
	ErrSchemaMismatch = errors.New("model feature schema does not match the feature vector")
	ErrUnknownKind    = errors.New("unknown model kind")
)

// Prediction is the classifier output for one feature vector.
type Prediction struct {
	Label       int     `json:"label"`
	Probability float64 `json:"probability"`
}

// Classifier turns a feature vector into a label and positive-class probability.
type Classifier interface {
	Predict(v features.FeatureVector) (Prediction, error)
}

// Info describes a loaded artifact.
type Info struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Kind      string   `json:"kind"`
	Features  []string `json:"features"`
	Threshold float64  `json:"threshold"`
}

// Artifact is the on-disk representation of a trained classifier.
type Artifact struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Kind      string   `json:"kind"`
	Features  []string `json:"features"`
	Threshold *float64 `json:"threshold,omitempty"`

	Scaler       *Scaler   `json:"scaler,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`

	Trees []Tree `json:"trees,omitempty"`
}

type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Model is an immutable, loaded classifier. It is safe to share across
// goroutines because nothing mutates it after Load returns.
type Model struct {
	info   Info
	scorer scorer
}

type scorer interface {
	probability(x []float64) float64
}

// Load reads and validates the artifact at path.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model %s: %w", path, err)
	}

	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}

	m, err := New(a)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}

// New validates an artifact and builds a Model from it.
func New(a Artifact) (*Model, error) {
	if err := checkSchema(a.Features); err != nil {
		return nil, err
	}

	threshold := defaultThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold %v outside [0,1]", threshold)
	}

	var (
		s   scorer
		err error
	)
	switch a.Kind {
	case KindLogistic:
		s, err = newLogistic(a.Coefficients, a.Intercept, a.Scaler)
	case KindTreeEnsemble:
		s, err = newEnsemble(a.Trees)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, a.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Model{
		info: Info{
			Name:      a.Name,
			Version:   a.Version,
			Kind:      a.Kind,
			Features:  features.Names(),
			Threshold: threshold,
		},
		scorer: s,
	}, nil
}

func checkSchema(names []string) error {
	want := features.Names()
	if len(names) != len(want) {
		return fmt.Errorf("%w: got %d features, want %d", ErrSchemaMismatch, len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			return fmt.Errorf("%w: position %d is %q, want %q", ErrSchemaMismatch, i, names[i], want[i])
		}
	}
	return nil
}

func (m *Model) Info() Info {
	info := m.info
	info.Features = append([]string(nil), m.info.Features...)
	return info
}

// Predict returns label 1 when the positive-class probability exceeds the
// artifact threshold.
func (m *Model) Predict(v features.FeatureVector) (Prediction, error) {
	p := m.scorer.probability(v.Slice())
	if math.IsNaN(p) {
		return Prediction{}, fmt.Errorf("model produced NaN for %v", v)
	}
	p = math.Max(0, math.Min(1, p))

	label := 0
	if p > m.info.Threshold {
		label = 1
	}
	return Prediction{Label: label, Probability: p}, nil
}

type logistic struct {
	coef      []float64
	intercept float64
	mean      []float64
	scale     []float64
}

func newLogistic(coef []float64, intercept float64, sc *Scaler) (*logistic, error) {
	if len(coef) != features.Width {
		return nil, fmt.Errorf("logistic model has %d coefficients, want %d", len(coef), features.Width)
	}
	l := &logistic{coef: append([]float64(nil), coef...), intercept: intercept}
	if sc != nil {
		if len(sc.Mean) != features.Width || len(sc.Scale) != features.Width {
			return nil, fmt.Errorf("scaler needs %d means and scales", features.Width)
		}
		for i, s := range sc.Scale {
			if s == 0 {
				return nil, fmt.Errorf("scaler scale at position %d is zero", i)
			}
		}
		l.mean = append([]float64(nil), sc.Mean...)
		l.scale = append([]float64(nil), sc.Scale...)
	}
	return l, nil
}

func (l *logistic) probability(x []float64) float64 {
	if l.mean != nil {
		floats.Sub(x, l.mean)
		floats.Div(x, l.scale)
	}
	z := l.intercept + floats.Dot(l.coef, x)
	return 1 / (1 + math.Exp(-z))
}
