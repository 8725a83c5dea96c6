package catalog_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/infrastructure/storage/postgres"
)

const itemsTable = "items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewItemRepo creates an item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByCode returns the item with the exact code.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	q := r.builder.Select("id", "code", "description", "created_at").
		From(itemsTable).
		Where(squirrel.Eq{"code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var i item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &i, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewItemNotFound(code)
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}

// Search returns items whose code contains term, prefix matches ranked
// ahead of substring matches, alphabetical within each rank.
func (r *ItemRepo) Search(ctx context.Context, term string, limit int) ([]*item.Item, error) {
	sql := rankedSearchSQL(itemsTable, "id, code, description, created_at")

	var items []*item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, term, limit); err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

// Create inserts an item, silently skipping duplicate codes.
func (r *ItemRepo) Create(ctx context.Context, i *item.Item) error {
	q := r.builder.Insert(itemsTable).
		Columns("id", "code", "description", "created_at").
		Values(i.ID, i.Code, i.Description, i.CreatedAt).
		Suffix("ON CONFLICT (code) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// Ensure returns the item with the given code, creating it if absent.
// The upsert keeps concurrent first references race-free.
func (r *ItemRepo) Ensure(ctx context.Context, code string) (*item.Item, error) {
	code = strings.TrimSpace(code)
	sql := `
		INSERT INTO items (id, code, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
		RETURNING id, code, description, created_at
	`

	var i item.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &i, sql, id.New(), code, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("ensure item: %w", err)
	}
	return &i, nil
}

// Count returns the number of items.
func (r *ItemRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &count, "SELECT count(*) FROM items"); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}
