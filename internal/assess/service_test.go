package assess

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/logger"
	"github.com/Skufu/diabetes-risk/internal/metrics"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/report"
)

type fakeClassifier struct {
	pred  model.Prediction
	err   error
	calls []features.FeatureVector
}

func (f *fakeClassifier) Predict(v features.FeatureVector) (model.Prediction, error) {
	f.calls = append(f.calls, v)
	return f.pred, f.err
}

type fakeRecorder struct {
	got []Assessment
	err error
}

func (f *fakeRecorder) Record(ctx context.Context, a Assessment) error {
	f.got = append(f.got, a)
	return f.err
}

type fakePublisher struct {
	got []Assessment
	err error
}

func (f *fakePublisher) Publish(ctx context.Context, a Assessment) error {
	f.got = append(f.got, a)
	return f.err
}

var fixedNow = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestService(c model.Classifier, opts ...Option) *Service {
	opts = append(opts, WithClock(func() time.Time { return fixedNow }))
	return NewService(c, logger.Nop(), opts...)
}

func TestAssessClinicalEndToEnd(t *testing.T) {
	clf := &fakeClassifier{pred: model.Prediction{Label: 1, Probability: 0.85}}
	svc := newTestService(clf)

	in := features.ClinicalInput{
		Pregnancies:   0,
		Glucose:       180,
		BloodPressure: 90,
		SkinThickness: 35,
		Insulin:       150,
		BMI:           32.0,
		Pedigree:      0.8,
		Age:           45,
	}
	a, err := svc.AssessClinical(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, clf.calls, 1)
	assert.Equal(t, features.FeatureVector{0, 180, 90, 35, 150, 32.0, 0.8, 45}, clf.calls[0])
	assert.Equal(t, report.VariantClinical, a.Variant)
	assert.Equal(t, fixedNow, a.CreatedAt)
	assert.NotEqual(t, uuid.Nil, a.ID)

	r := a.Report
	assert.Equal(t, report.ZoneHigh, r.Zone)
	assert.True(t, r.Outcome.Alarm)
	assert.Equal(t, report.GlucoseDiabetic, r.Dashboard[0].Band)
	assert.Equal(t, report.BMIObese, r.Dashboard[1].Band)
	assert.Equal(t, report.BPHigh, r.Dashboard[2].Band)
	assert.Equal(t, report.AgeMiddle, r.Dashboard[3].Band)
}

func TestAssessClinicalRejectsOutOfRange(t *testing.T) {
	clf := &fakeClassifier{}
	svc := newTestService(clf)
	before := testutil.ToFloat64(metrics.AssessmentsRejected.WithLabelValues("clinical"))

	in := features.DefaultClinicalInput()
	in.Age = 81
	_, err := svc.AssessClinical(context.Background(), in)

	assert.True(t, IsValidation(err))
	assert.Empty(t, clf.calls, "classifier must not run on rejected input")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AssessmentsRejected.WithLabelValues("clinical")))
}

func TestAssessLifestyle(t *testing.T) {
	clf := &fakeClassifier{pred: model.Prediction{Label: 0, Probability: 0.2}}
	svc := newTestService(clf)

	in := features.LifestyleInput{
		Age:           30,
		WeightKg:      70,
		HeightCm:      170,
		FamilyHistory: features.FamilyBoth,
		Activity:      features.ActivityDaily,
		Diet:          features.DietJunkFood,
	}
	a, err := svc.AssessLifestyle(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, clf.calls, 1)
	v := clf.calls[0]
	assert.Equal(t, 160.0, v[features.Glucose])
	assert.Equal(t, 0.9, v[features.Pedigree])
	assert.Equal(t, v, a.Vector)

	assert.Equal(t, report.VariantLifestyle, a.Report.Variant)
	assert.Empty(t, a.Report.Zone)
	assert.Equal(t, "Lower Risk Profile", a.Report.Outcome.Title)
	assert.Equal(t, 24.2, a.Report.BMI)
}

func TestAssessLifestyleRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(&fakeClassifier{})
	in := features.DefaultLifestyleInput()
	in.FamilyHistory = "Cousins"

	_, err := svc.AssessLifestyle(context.Background(), in)
	assert.True(t, IsValidation(err))
}

func TestClassifierErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(&fakeClassifier{err: boom})

	_, err := svc.AssessClinical(context.Background(), features.DefaultClinicalInput())
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsValidation(err))
}

func TestRecorderAndPublisherAreBestEffort(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	pub := &fakePublisher{err: errors.New("redis down")}
	svc := newTestService(&fakeClassifier{pred: model.Prediction{Probability: 0.3}},
		WithRecorder(rec), WithPublisher(pub))

	a, err := svc.AssessClinical(context.Background(), features.DefaultClinicalInput())
	require.NoError(t, err)

	require.Len(t, rec.got, 1)
	require.Len(t, pub.got, 1)
	assert.Equal(t, a.ID, rec.got[0].ID)
	assert.Equal(t, a.ID, pub.got[0].ID)
}
