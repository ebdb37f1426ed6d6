package events

import (
	"context"
	"encoding/json"
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

func sampleAssessment() assess.Assessment {
	in := features.DefaultClinicalInput()
	return assess.Assessment{
		ID:        uuid.MustParse("6f1c2c4e-3a52-4f0e-9f57-8d1e0c7a9b10"),
		Variant:   report.VariantClinical,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Vector:    in.Vector(),
		Report:    report.Clinical(model.Prediction{Label: 1, Probability: 0.75}, in),
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(sampleAssessment())

	assert.Equal(t, "6f1c2c4e-3a52-4f0e-9f57-8d1e0c7a9b10", ev.ID)
	assert.Equal(t, "clinical", ev.Variant)
	assert.Equal(t, 1, ev.Label)
	assert.Equal(t, "high", ev.Zone)

	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "glucose")
}

func TestNilClientPublisherIsNoop(t *testing.T) {
	p := NewPublisher(nil, "")
	assert.Equal(t, Channel, p.channel)
	assert.NoError(t, p.Publish(context.Background(), sampleAssessment()))
	assert.NoError(t, p.Close())
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-redis-url", 1)
	assert.Error(t, err)
}

// Runs only when TEST_REDIS_URL points at a disposable Redis.
func TestPublishDeliversEvent(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := Connect(ctx, url, 1)
	require.NoError(t, err)
	defer p.Close()

	sub := p.client.Subscribe(ctx, Channel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	a := sampleAssessment()
	require.NoError(t, p.Publish(ctx, a))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, Channel, msg.Channel)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	want := NewEvent(a)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Variant, got.Variant)
	assert.Equal(t, want.Label, got.Label)
	assert.Equal(t, want.Probability, got.Probability)
	assert.Equal(t, want.Zone, got.Zone)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}
