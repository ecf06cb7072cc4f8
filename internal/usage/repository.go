package usage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/marketcards/internal/contracts"
)

// Repository persists usage entries to the append-only cards.usage_log
// ⭐ SSOT: 사용 로그 저장은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new usage repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one usage entry
func (r *Repository) Insert(ctx context.Context, entry *contracts.UsageLogEntry) error {
	query := `
		INSERT INTO cards.usage_log (
			caller_id, card_id, mode, symbol, requested_date, trading_date,
			outcome, error_kind, latency_ms, created_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.CallerID, entry.CardID, string(entry.Mode), entry.Symbol,
		entry.RequestedDate, entry.TradingDate,
		entry.Outcome, entry.ErrorKind, entry.LatencyMS, entry.Timestamp,
	)
	return err
}

// Stat is one aggregated usage row for offline reporting
type Stat struct {
	CardID  string
	Outcome string
	Count   int64
}

// Stats aggregates request counts per card and outcome since a cutoff
func (r *Repository) Stats(ctx context.Context, since time.Time) ([]Stat, error) {
	query := `
		SELECT card_id, outcome, COUNT(*)
		FROM cards.usage_log
		WHERE created_at >= $1
		GROUP BY card_id, outcome
		ORDER BY card_id, outcome
	`

	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []Stat
	for rows.Next() {
		var s Stat
		if err := rows.Scan(&s.CardID, &s.Outcome, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// PurgeOlderThan deletes entries older than the cutoff, returning the
// number of rows removed
func (r *Repository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards.usage_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
