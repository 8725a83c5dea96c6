package reports

import (
	"context"
	"strings"

	"bintrack/internal/core/apperror"
	"bintrack/pkg/logger"
)

// Service runs aggregation views over the ledger. Unknown codes produce
// empty result shapes so read flows never 404.
type Service struct {
	repo Repository
}

// NewService creates a reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ByBin reports the contents of one bin, broken down by item.
func (s *Service) ByBin(ctx context.Context, binCode string) (*BinView, error) {
	rows, err := s.repo.RowsByBin(ctx, strings.TrimSpace(binCode))
	if err != nil {
		logger.Error(ctx, "bin aggregation failed", "bin", binCode, "error", err)
		return nil, apperror.NewStoreFailure(err)
	}

	items := aggregate(rows, byItemCode, tagPOBT)
	pieces, boxes := totals(items)
	return &BinView{
		BinCode:     binCode,
		TotalPieces: pieces,
		TotalBoxes:  boxes,
		Items:       items,
	}, nil
}

// ByItem reports where an item sits, broken down by bin.
func (s *Service) ByItem(ctx context.Context, itemCode string) (*ItemView, error) {
	rows, err := s.repo.RowsByItem(ctx, strings.TrimSpace(itemCode))
	if err != nil {
		logger.Error(ctx, "item aggregation failed", "item", itemCode, "error", err)
		return nil, apperror.NewStoreFailure(err)
	}

	bins := aggregate(rows, byBinCode, tagPOBT)
	pieces, boxes := totals(bins)
	return &ItemView{
		ItemCode:    itemCode,
		TotalPieces: pieces,
		TotalBoxes:  boxes,
		Bins:        bins,
	}, nil
}

// Locations is the flattened companion of ByItem: one entry per bin with
// the combination-agnostic box breakdown only.
func (s *Service) Locations(ctx context.Context, itemCode string) (*LocationsView, error) {
	view, err := s.ByItem(ctx, itemCode)
	if err != nil {
		return nil, err
	}

	locations := make([]Location, 0, len(view.Bins))
	for _, b := range view.Bins {
		locations = append(locations, Location{
			BinCode:     b.Code,
			TotalPieces: b.TotalPieces,
			TotalBoxes:  b.TotalBoxes,
			BoxDetails:  b.BoxDetails,
		})
	}
	return &LocationsView{
		ItemCode:    view.ItemCode,
		TotalPieces: view.TotalPieces,
		Locations:   locations,
	}, nil
}

// ByBatchTag reports everything carrying one batch tag, broken down by
// item with bin/PO sub-groups.
func (s *Service) ByBatchTag(ctx context.Context, batchTag string) (*TagView, error) {
	rows, err := s.repo.RowsByBatchTag(ctx, strings.TrimSpace(batchTag))
	if err != nil {
		logger.Error(ctx, "batch tag aggregation failed", "bt", batchTag, "error", err)
		return nil, apperror.NewStoreFailure(err)
	}

	items := aggregate(rows, byItemCode, tagBinPO)
	pieces, boxes := totals(items)
	return &TagView{
		Value:       batchTag,
		TotalPieces: pieces,
		TotalBoxes:  boxes,
		Items:       items,
	}, nil
}

// ByCustomerPO reports everything carrying one customer PO, broken down by
// item with bin/BT sub-groups.
func (s *Service) ByCustomerPO(ctx context.Context, customerPO string) (*TagView, error) {
	rows, err := s.repo.RowsByCustomerPO(ctx, strings.TrimSpace(customerPO))
	if err != nil {
		logger.Error(ctx, "customer PO aggregation failed", "po", customerPO, "error", err)
		return nil, apperror.NewStoreFailure(err)
	}

	items := aggregate(rows, byItemCode, tagBinBT)
	pieces, boxes := totals(items)
	return &TagView{
		Value:       customerPO,
		TotalPieces: pieces,
		TotalBoxes:  boxes,
		Items:       items,
	}, nil
}

// BatchTags lists distinct batch tags, optionally filtered.
func (s *Service) BatchTags(ctx context.Context, search string) ([]string, error) {
	tags, err := s.repo.DistinctBatchTags(ctx, strings.TrimSpace(search))
	if err != nil {
		logger.Error(ctx, "batch tag listing failed", "error", err)
		return []string{}, nil
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// CustomerPOs lists distinct customer POs, optionally filtered.
func (s *Service) CustomerPOs(ctx context.Context, search string) ([]string, error) {
	pos, err := s.repo.DistinctCustomerPOs(ctx, strings.TrimSpace(search))
	if err != nil {
		logger.Error(ctx, "customer PO listing failed", "error", err)
		return []string{}, nil
	}
	if pos == nil {
		pos = []string{}
	}
	return pos, nil
}

// AllRows exposes the raw ledger for exports.
func (s *Service) AllRows(ctx context.Context) ([]Row, error) {
	rows, err := s.repo.AllRows(ctx)
	if err != nil {
		logger.Error(ctx, "ledger export query failed", "error", err)
		return nil, apperror.NewStoreFailure(err)
	}
	return rows, nil
}
