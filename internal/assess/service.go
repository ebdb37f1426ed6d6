package assess

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/metrics"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/report"
)

// Assessment is one completed submission.
type Assessment struct {
	ID        uuid.UUID              `json:"id"`
	Variant   report.Variant         `json:"variant"`
	CreatedAt time.Time              `json:"createdAt"`
	Vector    features.FeatureVector `json:"vector"`
	Report    report.Report          `json:"report"`
}

// Recorder persists assessments. Nil means history is disabled.
type Recorder interface {
	Record(ctx context.Context, a Assessment) error
}

// Publisher announces assessments to other services. Nil means disabled.
type Publisher interface {
	Publish(ctx context.Context, a Assessment) error
}

// Service runs the collect, predict, render path. The classifier is shared
// by every call and never mutated.
type Service struct {
	classifier model.Classifier
	recorder   Recorder
	publisher  Publisher
	log        *zap.SugaredLogger
	now        func() time.Time
}

type Option func(*Service)

func WithRecorder(r Recorder) Option   { return func(s *Service) { s.recorder = r } }
func WithPublisher(p Publisher) Option { return func(s *Service) { s.publisher = p } }
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(c model.Classifier, log *zap.SugaredLogger, opts ...Option) *Service {
	s := &Service{
		classifier: c,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssessClinical validates the clinical form and returns its report.
func (s *Service) AssessClinical(ctx context.Context, in features.ClinicalInput) (Assessment, error) {
	if err := in.Validate(); err != nil {
		metrics.AssessmentsRejected.WithLabelValues(string(report.VariantClinical)).Inc()
		return Assessment{}, err
	}

	v := in.Vector()
	pred, err := s.predict(v)
	if err != nil {
		return Assessment{}, err
	}

	return s.finish(ctx, report.VariantClinical, v, report.Clinical(pred, in)), nil
}

// AssessLifestyle derives clinical proxies from lay answers and returns the
// simplified report.
func (s *Service) AssessLifestyle(ctx context.Context, in features.LifestyleInput) (Assessment, error) {
	if err := in.Validate(); err != nil {
		metrics.AssessmentsRejected.WithLabelValues(string(report.VariantLifestyle)).Inc()
		return Assessment{}, err
	}

	d := features.Derive(in)
	pred, err := s.predict(d.Vector)
	if err != nil {
		return Assessment{}, err
	}

	return s.finish(ctx, report.VariantLifestyle, d.Vector, report.Lifestyle(pred, in, d)), nil
}

func (s *Service) predict(v features.FeatureVector) (model.Prediction, error) {
	start := time.Now()
	pred, err := s.classifier.Predict(v)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionsFailed.Inc()
		return model.Prediction{}, fmt.Errorf("predict: %w", err)
	}
	return pred, nil
}

func (s *Service) finish(ctx context.Context, variant report.Variant, v features.FeatureVector, r report.Report) Assessment {
	a := Assessment{
		ID:        uuid.New(),
		Variant:   variant,
		CreatedAt: s.now().UTC(),
		Vector:    v,
		Report:    r,
	}
	metrics.AssessmentsTotal.WithLabelValues(string(variant), strconv.Itoa(r.Label)).Inc()

	// History and events are best effort; the report is already complete.
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, a); err != nil {
			metrics.RecordsFailed.Inc()
			s.log.Warnw("store assessment failed", "id", a.ID, "error", err)
		} else {
			metrics.RecordsStored.Inc()
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, a); err != nil {
			metrics.EventsFailed.Inc()
			s.log.Warnw("publish assessment failed", "id", a.ID, "error", err)
		} else {
			metrics.EventsPublished.Inc()
		}
	}

	s.log.Infow("assessment completed",
		"id", a.ID,
		"variant", variant,
		"label", r.Label,
		"probability", r.Probability,
	)
	return a
}

// IsValidation reports whether err came from rejected form input.
func IsValidation(err error) bool {
	var verr *features.ValidationError
	return errors.As(err, &verr)
}
