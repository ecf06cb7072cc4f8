package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/marketcards/internal/contracts"
)

// Repository implements Source against the cards.catalog table
// ⭐ SSOT: 카탈로그 조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new catalog repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListDefinitions loads all catalog entries, enabled or not. The gate
// needs disabled rows too so it can tell disabled apart from unknown.
func (r *Repository) ListDefinitions(ctx context.Context) ([]contracts.CardDefinition, error) {
	query := `
		SELECT card_id, title, category, requires_symbol, minimum_tier, is_active,
		       COALESCE(short_description, ''), COALESCE(how_to_interpret, ''),
		       COALESCE(educational_tip, '')
		FROM cards.catalog
		ORDER BY card_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []contracts.CardDefinition
	for rows.Next() {
		var d contracts.CardDefinition
		if err := rows.Scan(
			&d.CardID, &d.Title, &d.Category, &d.RequiresSymbol, &d.MinimumTier,
			&d.IsActive, &d.ShortDescription, &d.HowToInterpret, &d.EducationalTip,
		); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}
