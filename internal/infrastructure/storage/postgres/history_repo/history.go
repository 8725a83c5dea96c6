// Package history_repo provides the PostgreSQL implementation of the
// append-only audit trail.
package history_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bintrack/internal/domain/history"
	"bintrack/internal/infrastructure/storage/postgres"
)

const historyTable = "history"

// HistoryRepo implements history.Repository.
type HistoryRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewHistoryRepo creates a history repository.
func NewHistoryRepo(txManager *postgres.TxManager) *HistoryRepo {
	return &HistoryRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Append inserts one entry. ID comes from the sequence, CreatedAt from the
// store clock when unset.
func (r *HistoryRepo) Append(ctx context.Context, e *history.Entry) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	sql := `
		INSERT INTO history (kind, bin_code, item_code, customer_po, batch_tag,
		                     box_count, pieces_per_box, total_pieces, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	querier := r.txManager.GetQuerier(ctx)
	row := querier.QueryRow(ctx, sql,
		e.Kind, e.BinCode, e.ItemCode, e.CustomerPO, e.BatchTag,
		e.BoxCount, e.PiecesPerBox, e.TotalPieces, createdAt,
	)
	if err := row.Scan(&e.ID); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	e.CreatedAt = createdAt
	return nil
}

// List returns entries newest-first. A non-nil date restricts results to
// that local calendar day.
func (r *HistoryRepo) List(ctx context.Context, date *time.Time) ([]*history.Entry, error) {
	q := r.builder.Select("id", "kind", "bin_code", "item_code", "customer_po", "batch_tag",
		"box_count", "pieces_per_box", "total_pieces", "created_at").
		From(historyTable).
		OrderBy("created_at DESC", "id DESC")

	if date != nil {
		dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		q = q.Where(squirrel.GtOrEq{"created_at": dayStart}).
			Where(squirrel.Lt{"created_at": dayStart.AddDate(0, 0, 1)})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*history.Entry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}
