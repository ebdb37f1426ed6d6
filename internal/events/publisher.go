package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Skufu/diabetes-risk/internal/assess"
)

const Channel = "diabetes:assessments"

// Event is the message published for each completed assessment. It carries
// the outcome only, not the raw answers.
type Event struct {
	ID          string    `json:"id"`
	Variant     string    `json:"variant"`
	CreatedAt   time.Time `json:"createdAt"`
	Label       int       `json:"label"`
	Probability float64   `json:"probability"`
	Zone        string    `json:"zone,omitempty"`
}

func NewEvent(a assess.Assessment) Event {
	return Event{
		ID:          a.ID.String(),
		Variant:     string(a.Variant),
		CreatedAt:   a.CreatedAt,
		Label:       a.Report.Label,
		Probability: a.Report.Probability,
		Zone:        string(a.Report.Zone),
	}
}

// Publisher sends assessment events over Redis pub/sub. A Publisher with a
// nil client drops every event.
type Publisher struct {
	client  *redis.Client
	channel string
}

// Connect parses url, pings the server up to attempts times and returns a
// ready publisher.
func Connect(ctx context.Context, url string, attempts int) (*Publisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastErr = client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			return NewPublisher(client, Channel), nil
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				_ = client.Close()
				return nil, ctx.Err()
			case <-time.After(time.Second):
			}
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("redis ping failed after %d attempts: %w", attempts, lastErr)
}

// NewPublisher wraps an existing client.
func NewPublisher(client *redis.Client, channel string) *Publisher {
	if channel == "" {
		channel = Channel
	}
	return &Publisher{client: client, channel: channel}
}

func (p *Publisher) Publish(ctx context.Context, a assess.Assessment) error {
	if p.client == nil {
		return nil
	}
	data, err := json.Marshal(NewEvent(a))
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

func (p *Publisher) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
