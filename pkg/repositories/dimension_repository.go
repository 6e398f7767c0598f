package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campuspulse/survey-engine/pkg/apperrors"
	"github.com/campuspulse/survey-engine/pkg/database"
)

// pgUndefinedTable is the PostgreSQL error code for a missing relation.
const pgUndefinedTable = "42P01"

// DimensionRepository provides find-or-create access to the dimension tables.
type DimensionRepository interface {
	// FindOrCreate resolves each value in values to its row id in the given
	// dimension table, inserting the values that do not exist yet. Values must
	// be canonical stored forms and already deduplicated by the caller. The
	// returned map is keyed by stored value.
	//
	// Returns apperrors.ErrTableNotFound if the table does not exist: that is
	// a migration error and is not retried.
	FindOrCreate(ctx context.Context, table, column string, values []string) (map[string]int64, error)
}

type dimensionRepository struct {
	db *database.DB
}

// NewDimensionRepository creates a new DimensionRepository.
func NewDimensionRepository(db *database.DB) DimensionRepository {
	return &dimensionRepository{db: db}
}

var _ DimensionRepository = (*dimensionRepository)(nil)

func (r *dimensionRepository) FindOrCreate(ctx context.Context, table, column string, values []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(values))
	if len(values) == 0 {
		return ids, nil
	}

	tbl := pgx.Identifier{table}.Sanitize()
	col := pgx.Identifier{column}.Sanitize()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Look up values already present so re-imports reuse existing rows.
	selectQuery := fmt.Sprintf(`SELECT id, %s FROM %s WHERE %s = ANY($1)`, col, tbl, col)
	rows, err := tx.Query(ctx, selectQuery, values)
	if err != nil {
		return nil, r.wrapTableError(err, table)
	}
	for rows.Next() {
		var id int64
		var value string
		if err := rows.Scan(&id, &value); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan dimension row: %w", err)
		}
		ids[value] = id
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dimension rows: %w", err)
	}

	var missing []string
	for _, v := range values {
		if _, ok := ids[v]; !ok {
			missing = append(missing, v)
		}
	}

	// Insert the unseen subset in a single batch and collect generated ids.
	if len(missing) > 0 {
		insertQuery := fmt.Sprintf(
			`INSERT INTO %s (%s) SELECT unnest($1::text[]) RETURNING id, %s`,
			tbl, col, col)
		rows, err = tx.Query(ctx, insertQuery, missing)
		if err != nil {
			return nil, r.wrapTableError(err, table)
		}
		for rows.Next() {
			var id int64
			var value string
			if err := rows.Scan(&id, &value); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan inserted dimension row: %w", err)
			}
			ids[value] = id
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to insert dimension rows: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit dimension transaction: %w", err)
	}

	return ids, nil
}

// wrapTableError maps PostgreSQL undefined-table errors onto the sentinel so
// callers can distinguish schema problems from transient failures.
func (r *dimensionRepository) wrapTableError(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %s", apperrors.ErrTableNotFound, table)
	}
	return fmt.Errorf("dimension query on %s failed: %w", table, err)
}
