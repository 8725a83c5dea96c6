// Package report_repo provides the PostgreSQL read side for aggregation.
package report_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"bintrack/internal/domain/reports"
	"bintrack/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

// NewReportRepo creates a report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

// rowSelect is the shared projection: codes denormalized, absent PO/BT
// collapsed to empty strings for grouping.
const rowSelect = `
	SELECT b.code AS bin_code, i.code AS item_code,
	       COALESCE(p.customer_po, '') AS customer_po,
	       COALESCE(p.batch_tag, '') AS batch_tag,
	       p.box_count, p.pieces_per_box, p.total_pieces
	FROM placements p
	JOIN bins b ON b.id = p.bin_id
	JOIN items i ON i.id = p.item_id
`

func (r *ReportRepo) selectRows(ctx context.Context, sql string, args ...any) ([]reports.Row, error) {
	var rows []reports.Row
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select ledger rows: %w", err)
	}
	return rows, nil
}

// RowsByBin returns all ledger rows for a bin code.
func (r *ReportRepo) RowsByBin(ctx context.Context, binCode string) ([]reports.Row, error) {
	return r.selectRows(ctx, rowSelect+" WHERE b.code = $1 ORDER BY i.code", binCode)
}

// RowsByItem returns all ledger rows for an item code.
func (r *ReportRepo) RowsByItem(ctx context.Context, itemCode string) ([]reports.Row, error) {
	return r.selectRows(ctx, rowSelect+" WHERE i.code = $1 ORDER BY b.code", itemCode)
}

// RowsByBatchTag returns all ledger rows carrying the batch tag.
func (r *ReportRepo) RowsByBatchTag(ctx context.Context, batchTag string) ([]reports.Row, error) {
	return r.selectRows(ctx, rowSelect+" WHERE p.batch_tag = $1 ORDER BY i.code, b.code", batchTag)
}

// RowsByCustomerPO returns all ledger rows carrying the PO.
func (r *ReportRepo) RowsByCustomerPO(ctx context.Context, customerPO string) ([]reports.Row, error) {
	return r.selectRows(ctx, rowSelect+" WHERE p.customer_po = $1 ORDER BY i.code, b.code", customerPO)
}

// AllRows returns the whole ledger ordered by bin then item.
func (r *ReportRepo) AllRows(ctx context.Context) ([]reports.Row, error) {
	return r.selectRows(ctx, rowSelect+" ORDER BY b.code, i.code, p.pieces_per_box")
}

// DistinctBatchTags lists distinct batch tags, optionally filtered.
func (r *ReportRepo) DistinctBatchTags(ctx context.Context, search string) ([]string, error) {
	return r.distinctValues(ctx, "batch_tag", search)
}

// DistinctCustomerPOs lists distinct customer POs, optionally filtered.
func (r *ReportRepo) DistinctCustomerPOs(ctx context.Context, search string) ([]string, error) {
	return r.distinctValues(ctx, "customer_po", search)
}

func (r *ReportRepo) distinctValues(ctx context.Context, column, search string) ([]string, error) {
	sql := fmt.Sprintf(`
		SELECT DISTINCT %s
		FROM placements
		WHERE %s IS NOT NULL AND %s <> ''
		  AND ($1 = '' OR %s ILIKE '%%' || $1 || '%%')
		ORDER BY %s
	`, column, column, column, column, column)

	var values []string
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &values, sql, search); err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	return values, nil
}
