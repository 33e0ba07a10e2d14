package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Outcome of a processed order as recorded in the journal.
const (
	OutcomeDelivered    = "delivered"
	OutcomeRefunded     = "refunded"
	OutcomeRefundFailed = "refund_failed"
	OutcomeManual       = "manual"
)

const schema = `
CREATE TABLE IF NOT EXISTS fulfillments (
	id         BIGSERIAL PRIMARY KEY,
	order_id   TEXT NOT NULL,
	buyer_id   BIGINT NOT NULL,
	points     INTEGER NOT NULL,
	outcome    TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS fulfillments_order_id_idx ON fulfillments (order_id);
`

// Store wraps the connection pool with the journal queries.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store with the given connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close closes the underlying connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the journal table if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Entry is one journaled order outcome.
type Entry struct {
	OrderID string
	BuyerID int64
	Points  int
	Outcome string
	Detail  string
}

// RecordOutcome appends an entry to the journal.
func (s *Store) RecordOutcome(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO fulfillments (order_id, buyer_id, points, outcome, detail) VALUES ($1, $2, $3, $4, $5)`,
		e.OrderID, e.BuyerID, e.Points, e.Outcome, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("record outcome for order %s: %w", e.OrderID, err)
	}
	return nil
}

// SeenOrderIDs returns every order id present in the journal. Used at startup
// to avoid re-delivering orders handled by a previous run.
func (s *Store) SeenOrderIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT order_id FROM fulfillments`)
	if err != nil {
		return nil, fmt.Errorf("query seen order ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order ids: %w", err)
	}
	return ids, nil
}
