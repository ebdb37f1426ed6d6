package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Skufu/diabetes-risk/internal/assess"
	"github.com/Skufu/diabetes-risk/internal/features"
	"github.com/Skufu/diabetes-risk/internal/report"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id          UUID PRIMARY KEY,
	variant     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	features    DOUBLE PRECISION[] NOT NULL,
	label       SMALLINT NOT NULL,
	probability DOUBLE PRECISION NOT NULL,
	zone        TEXT NOT NULL DEFAULT '',
	report      JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS assessments_created_at_id_idx ON assessments (created_at DESC, id DESC);
`

// Store keeps assessment history in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool, pings it and applies the schema.
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Record(ctx context.Context, a assess.Assessment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assessments (id, variant, created_at, features, label, probability, zone, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`, a.ID, string(a.Variant), a.CreatedAt, a.Vector.Slice(), a.Report.Label, a.Report.Probability, string(a.Report.Zone), a.Report)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// Cursor marks a position in the history. Rows are ordered by
// (created_at, id) so rows sharing a timestamp are never skipped.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// String encodes the cursor as "<RFC3339Nano>,<id>".
func (c Cursor) String() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + "," + c.ID.String()
}

// ParseCursor reads a cursor produced by String. A bare timestamp is also
// accepted and selects every row strictly older than it.
func ParseCursor(s string) (Cursor, error) {
	ts, id, hasID := strings.Cut(s, ",")
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return Cursor{}, fmt.Errorf("parse cursor time: %w", err)
	}
	c := Cursor{CreatedAt: t}
	if hasID {
		if c.ID, err = uuid.Parse(id); err != nil {
			return Cursor{}, fmt.Errorf("parse cursor id: %w", err)
		}
	}
	return c, nil
}

// Page selects a slice of history, newest first.
type Page struct {
	Limit  int
	Before *Cursor
}

// Normalize clamps the limit to [1, MaxLimit], defaulting to DefaultLimit.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// List returns up to p.Limit assessments positioned before p.Before and
// whether older ones remain.
func (s *Store) List(ctx context.Context, p Page) ([]assess.Assessment, bool, error) {
	p = p.Normalize()

	query := `
		SELECT id, variant, created_at, features, report
		FROM assessments
		ORDER BY created_at DESC, id DESC
		LIMIT $1`
	args := []any{p.Limit + 1}
	if p.Before != nil {
		query = `
		SELECT id, variant, created_at, features, report
		FROM assessments
		WHERE (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $1`
		args = append(args, p.Before.CreatedAt, p.Before.ID)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("query assessments: %w", err)
	}

	out, err := pgx.CollectRows(rows, scanAssessment)
	if err != nil {
		return nil, false, fmt.Errorf("scan assessments: %w", err)
	}

	hasMore := len(out) > p.Limit
	if hasMore {
		out = out[:p.Limit]
	}
	return out, hasMore, nil
}

func scanAssessment(row pgx.CollectableRow) (assess.Assessment, error) {
	var (
		a       assess.Assessment
		variant string
		vec     []float64
		rep     report.Report
	)
	if err := row.Scan(&a.ID, &variant, &a.CreatedAt, &vec, &rep); err != nil {
		return a, err
	}
	if len(vec) != features.Width {
		return a, fmt.Errorf("assessment %s has %d features", a.ID, len(vec))
	}
	a.Variant = report.Variant(variant)
	copy(a.Vector[:], vec)
	a.Report = rep
	return a, nil
}
