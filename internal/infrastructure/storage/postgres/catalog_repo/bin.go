// Package catalog_repo provides PostgreSQL implementations of the bin and
// item catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bintrack/internal/core/apperror"
	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/infrastructure/storage/postgres"
)

const binsTable = "bins"

// BinRepo implements bin.Repository.
type BinRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewBinRepo creates a bin repository.
func NewBinRepo(txManager *postgres.TxManager) *BinRepo {
	return &BinRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByCode returns the bin with the exact code.
func (r *BinRepo) GetByCode(ctx context.Context, code string) (*bin.Bin, error) {
	q := r.builder.Select("id", "code", "note", "created_at").
		From(binsTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b bin.Bin
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewBinNotFound(code)
		}
		return nil, fmt.Errorf("get bin: %w", err)
	}
	return &b, nil
}

// Search returns bins whose code contains term, prefix matches ranked
// ahead of substring matches, alphabetical within each rank.
func (r *BinRepo) Search(ctx context.Context, term string, limit int) ([]*bin.Bin, error) {
	sql := rankedSearchSQL(binsTable, "id, code, note, created_at")

	var bins []*bin.Bin
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &bins, sql, term, limit); err != nil {
		return nil, fmt.Errorf("search bins: %w", err)
	}
	return bins, nil
}

// Create inserts a bin, silently skipping duplicate codes.
func (r *BinRepo) Create(ctx context.Context, b *bin.Bin) error {
	q := r.builder.Insert(binsTable).
		Columns("id", "code", "note", "created_at").
		Values(b.ID, b.Code, b.Note, b.CreatedAt).
		Suffix("ON CONFLICT (code) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bin: %w", err)
	}
	return nil
}

// Count returns the number of bins.
func (r *BinRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &count, "SELECT count(*) FROM bins"); err != nil {
		return 0, fmt.Errorf("count bins: %w", err)
	}
	return count, nil
}
