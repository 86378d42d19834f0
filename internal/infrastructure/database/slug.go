package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"blog-backend/internal/shared/utils"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NextSlug returns the first free slug for base in table: base, base-2,
// base-3, ... A concurrent insert can still take it; callers retry on the
// slug constraint. table is always a package constant, never user input.
func NextSlug(ctx context.Context, db Querier, table, base, fallback string, maxLen int) (string, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE slug = $1)`, table)

	var lookupErr error
	slug := utils.UniqueSlug(base, fallback, maxLen, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		var exists bool
		lookupErr = db.QueryRow(ctx, query, candidate).Scan(&exists)
		return exists
	})
	if lookupErr != nil {
		return "", fmt.Errorf("failed to check slug in %s: %w", table, lookupErr)
	}
	return slug, nil
}
