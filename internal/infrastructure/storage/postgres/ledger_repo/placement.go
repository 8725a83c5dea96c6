// Package ledger_repo provides the PostgreSQL implementation of the
// inventory ledger write side.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bintrack/internal/core/id"
	"bintrack/internal/domain/ledger"
	"bintrack/internal/infrastructure/storage/postgres"
)

const placementsTable = "placements"

// PlacementRepo implements ledger.Repository.
type PlacementRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewPlacementRepo creates a placement repository.
func NewPlacementRepo(txManager *postgres.TxManager) *PlacementRepo {
	return &PlacementRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindMergeTarget locks and returns the row matching the merge key, or nil.
// NULL and empty PO/BT are distinct keys, so the comparison goes through
// COALESCE against the caller's nullable values.
func (r *PlacementRepo) FindMergeTarget(ctx context.Context, binID, itemID id.ID, customerPO, batchTag *string, piecesPerBox int) (*ledger.Placement, error) {
	sql := `
		SELECT id, bin_id, item_id, customer_po, batch_tag,
		       box_count, pieces_per_box, total_pieces, created_at, updated_at
		FROM placements
		WHERE bin_id = $1 AND item_id = $2
		  AND COALESCE(customer_po, '') = COALESCE($3, '')
		  AND COALESCE(batch_tag, '') = COALESCE($4, '')
		  AND pieces_per_box = $5
		FOR UPDATE
	`

	var p ledger.Placement
	querier := r.txManager.GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &p, sql, binID, itemID, customerPO, batchTag, piecesPerBox)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find merge target: %w", err)
	}
	return &p, nil
}

// Insert creates a new ledger row.
func (r *PlacementRepo) Insert(ctx context.Context, p *ledger.Placement) error {
	q := r.builder.Insert(placementsTable).
		Columns("id", "bin_id", "item_id", "customer_po", "batch_tag",
			"box_count", "pieces_per_box", "total_pieces", "created_at", "updated_at").
		Values(p.ID, p.BinID, p.ItemID, p.CustomerPO, p.BatchTag,
			p.BoxCount, p.PiecesPerBox, p.TotalPieces, p.CreatedAt, p.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert placement: %w", err)
	}
	return nil
}

// IncrementBoxes adds boxes to a row, recomputing total_pieces in the store
// so the row invariant cannot drift.
func (r *PlacementRepo) IncrementBoxes(ctx context.Context, placementID id.ID, boxes int) error {
	sql := `
		UPDATE placements
		SET box_count = box_count + $2,
		    total_pieces = (box_count + $2) * pieces_per_box,
		    updated_at = now()
		WHERE id = $1
	`

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, placementID, boxes)
	if err != nil {
		return fmt.Errorf("increment boxes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment boxes: placement %s not found", placementID)
	}
	return nil
}

// RowsForClear locks and returns all rows of a bin with their item codes.
func (r *PlacementRepo) RowsForClear(ctx context.Context, binID id.ID) ([]*ledger.ClearRow, error) {
	sql := `
		SELECT p.item_id, i.code AS item_code, p.customer_po, p.batch_tag,
		       p.box_count, p.pieces_per_box, p.total_pieces
		FROM placements p
		JOIN items i ON i.id = p.item_id
		WHERE p.bin_id = $1
		ORDER BY i.code, p.customer_po NULLS FIRST, p.batch_tag NULLS FIRST, p.pieces_per_box
		FOR UPDATE OF p
	`

	var rows []*ledger.ClearRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, binID); err != nil {
		return nil, fmt.Errorf("rows for clear: %w", err)
	}
	return rows, nil
}

// RowsForClearItem is RowsForClear scoped to one item.
func (r *PlacementRepo) RowsForClearItem(ctx context.Context, binID, itemID id.ID) ([]*ledger.ClearRow, error) {
	sql := `
		SELECT p.item_id, i.code AS item_code, p.customer_po, p.batch_tag,
		       p.box_count, p.pieces_per_box, p.total_pieces
		FROM placements p
		JOIN items i ON i.id = p.item_id
		WHERE p.bin_id = $1 AND p.item_id = $2
		ORDER BY p.customer_po NULLS FIRST, p.batch_tag NULLS FIRST, p.pieces_per_box
		FOR UPDATE OF p
	`

	var rows []*ledger.ClearRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, binID, itemID); err != nil {
		return nil, fmt.Errorf("rows for clear item: %w", err)
	}
	return rows, nil
}

// DeleteByBin removes all rows of a bin.
func (r *PlacementRepo) DeleteByBin(ctx context.Context, binID id.ID) (int64, error) {
	q := r.builder.Delete(placementsTable).Where(squirrel.Eq{"bin_id": binID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete by bin: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByBinItem removes all rows of one item in a bin.
func (r *PlacementRepo) DeleteByBinItem(ctx context.Context, binID, itemID id.ID) (int64, error) {
	q := r.builder.Delete(placementsTable).
		Where(squirrel.Eq{"bin_id": binID, "item_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete by bin item: %w", err)
	}
	return tag.RowsAffected(), nil
}
