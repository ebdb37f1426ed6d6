package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/model"
	"github.com/Skufu/diabetes-risk/internal/report"
)

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, DefaultLimit, Page{}.Normalize().Limit)
	assert.Equal(t, DefaultLimit, Page{Limit: -3}.Normalize().Limit)
	assert.Equal(t, 10, Page{Limit: 10}.Normalize().Limit)
	assert.Equal(t, MaxLimit, Page{Limit: 5000}.Normalize().Limit)
}

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 123456000, time.UTC),
		ID:        uuid.MustParse("6f1c2c4e-3a52-4f0e-9f57-8d1e0c7a9b10"),
	}
	assert.Equal(t, "2026-03-01T09:30:00.123456Z,6f1c2c4e-3a52-4f0e-9f57-8d1e0c7a9b10", c.String())

	got, err := ParseCursor(c.String())
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, c.ID, got.ID)
}

func TestParseCursorBareTimestamp(t *testing.T) {
	got, err := ParseCursor("2026-03-02T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got.ID)
	assert.True(t, got.CreatedAt.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "yesterday", "2026-03-02T00:00:00Z,not-a-uuid"} {
		_, err := ParseCursor(s)
		assert.Error(t, err, s)
	}
}

// Runs only when TEST_DATABASE_URL points at a disposable Postgres.
func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	in := features.DefaultClinicalInput()
	created := time.Now().UTC().Truncate(time.Microsecond)
	a := assess.Assessment{
		ID:        uuid.New(),
		Variant:   report.VariantClinical,
		CreatedAt: created,
		Vector:    in.Vector(),
		Report:    report.Clinical(model.Prediction{Label: 0, Probability: 0.2}, in),
	}
	require.NoError(t, s.Record(ctx, a))

	before := Cursor{CreatedAt: created.Add(time.Second)}
	got, _, err := s.List(ctx, Page{Limit: 5, Before: &before})
	require.NoError(t, err)
	require.NotEmpty(t, got)

	var found *assess.Assessment
	for i := range got {
		if got[i].ID == a.ID {
			found = &got[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, a.Vector, found.Vector)
	assert.Equal(t, report.ZoneLow, found.Report.Zone)
	assert.True(t, a.CreatedAt.Equal(found.CreatedAt))
}

// Rows sharing a timestamp must all be reachable across pages.
func TestStoreListSameTimestamp(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Connect(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	in := features.DefaultClinicalInput()
	created := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(time.Now().UnixNano() % int64(time.Hour)))
	created = created.Truncate(time.Microsecond)
	want := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		a := assess.Assessment{
			ID:        uuid.New(),
			Variant:   report.VariantClinical,
			CreatedAt: created,
			Vector:    in.Vector(),
			Report:    report.Clinical(model.Prediction{Label: 0, Probability: 0.2}, in),
		}
		require.NoError(t, s.Record(ctx, a))
		want[a.ID] = true
	}

	before := &Cursor{CreatedAt: created.Add(time.Microsecond)}
	seen := map[uuid.UUID]bool{}
	for {
		rows, hasMore, err := s.List(ctx, Page{Limit: 1, Before: before})
		require.NoError(t, err)
		if len(rows) == 0 || !rows[0].CreatedAt.Equal(created) {
			break
		}
		seen[rows[0].ID] = true
		if !hasMore {
			break
		}
		before = &Cursor{CreatedAt: rows[0].CreatedAt, ID: rows[0].ID}
	}
	assert.Equal(t, want, seen)
}
