package ledger

import (
	"context"
	"time"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
	"bintrack/internal/core/tx"
	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/domain/history"
	"bintrack/pkg/logger"
)

// autoCreateItems controls whether a placement referencing an unknown item
// code registers the item on the fly. Bins are never auto-created.
const autoCreateItems = true

// BinLookup is the slice of the bin catalog the ledger needs.
type BinLookup interface {
	GetByCode(ctx context.Context, code string) (*bin.Bin, error)
}

// ItemStore is the slice of the item catalog the ledger needs.
type ItemStore interface {
	GetByCode(ctx context.Context, code string) (*item.Item, error)
	Ensure(ctx context.Context, code string) (*item.Item, error)
}

// Service implements placement and clearing operations.
type Service struct {
	bins       BinLookup
	items      ItemStore
	placements Repository
	history    history.Repository
	txManager  tx.Manager
}

// NewService creates a ledger service.
func NewService(
	bins BinLookup,
	items ItemStore,
	placements Repository,
	hist history.Repository,
	txManager tx.Manager,
) *Service {
	return &Service{
		bins:       bins,
		items:      items,
		placements: placements,
		history:    hist,
		txManager:  txManager,
	}
}

// AddPlacement records goods put into a bin. A row with the same
// (bin, item, PO, BT, pieces-per-box) key is merged by incrementing its box
// count; otherwise a new row is created. Exactly one history entry with the
// request's delta is appended either way, atomically with the ledger change.
func (s *Service) AddPlacement(ctx context.Context, input PlacementInput) (*PlaceResult, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var result PlaceResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bins.GetByCode(ctx, input.BinCode)
		if err != nil {
			return err
		}

		var itemID id.ID
		if autoCreateItems {
			it, err := s.items.Ensure(ctx, input.ItemCode)
			if err != nil {
				return err
			}
			itemID = it.ID
		} else {
			it, err := s.items.GetByCode(ctx, input.ItemCode)
			if err != nil {
				return err
			}
			itemID = it.ID
		}

		po, bt := input.poPtr(), input.btPtr()

		target, err := s.placements.FindMergeTarget(ctx, b.ID, itemID, po, bt, input.PiecesPerBox)
		if err != nil {
			return apperror.NewStoreFailure(err)
		}

		if target != nil {
			if err := s.placements.IncrementBoxes(ctx, target.ID, input.BoxCount); err != nil {
				return apperror.NewStoreFailure(err)
			}
			target.BoxCount += input.BoxCount
			target.TotalPieces = target.BoxCount * target.PiecesPerBox
			result = PlaceResult{Merged: true, Placement: target}
		} else {
			now := time.Now().UTC()
			p := &Placement{
				ID:           id.New(),
				BinID:        b.ID,
				ItemID:       itemID,
				CustomerPO:   po,
				BatchTag:     bt,
				BoxCount:     input.BoxCount,
				PiecesPerBox: input.PiecesPerBox,
				TotalPieces:  input.BoxCount * input.PiecesPerBox,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.placements.Insert(ctx, p); err != nil {
				return apperror.NewStoreFailure(err)
			}
			result = PlaceResult{Merged: false, Placement: p}
		}

		entry := &history.Entry{
			Kind:         history.KindPlacement,
			BinCode:      input.BinCode,
			ItemCode:     input.ItemCode,
			CustomerPO:   po,
			BatchTag:     bt,
			BoxCount:     input.BoxCount,
			PiecesPerBox: input.PiecesPerBox,
			TotalPieces:  input.BoxCount * input.PiecesPerBox,
		}
		if err := s.history.Append(ctx, entry); err != nil {
			return apperror.NewStoreFailure(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "placement recorded",
		"bin", input.BinCode,
		"item", input.ItemCode,
		"boxes", input.BoxCount,
		"pieces_per_box", input.PiecesPerBox,
		"merged", result.Merged,
	)
	return &result, nil
}

// ClearBin removes every placement in a bin. One negative history entry is
// appended per removed (item, PO, BT) group, carrying the group's total and
// the box configuration of its largest row. An empty bin still gets one
// neutral entry so the clear itself is on record.
func (s *Service) ClearBin(ctx context.Context, binCode string) (*ClearResult, error) {
	var result ClearResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bins.GetByCode(ctx, binCode)
		if err != nil {
			return err
		}

		rows, err := s.placements.RowsForClear(ctx, b.ID)
		if err != nil {
			return apperror.NewStoreFailure(err)
		}

		if _, err := s.placements.DeleteByBin(ctx, b.ID); err != nil {
			return apperror.NewStoreFailure(err)
		}

		return s.appendClearEntries(ctx, history.KindClearBin, binCode, rows, "", &result)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "bin cleared", "bin", binCode, "groups", result.Groups, "pieces", result.Pieces)
	return &result, nil
}

// ClearItemAtBin removes one item's placements within a bin. Both the bin
// and the item must exist.
func (s *Service) ClearItemAtBin(ctx context.Context, binCode, itemCode string) (*ClearResult, error) {
	var result ClearResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		b, err := s.bins.GetByCode(ctx, binCode)
		if err != nil {
			return err
		}
		it, err := s.items.GetByCode(ctx, itemCode)
		if err != nil {
			return err
		}

		rows, err := s.placements.RowsForClearItem(ctx, b.ID, it.ID)
		if err != nil {
			return apperror.NewStoreFailure(err)
		}

		if _, err := s.placements.DeleteByBinItem(ctx, b.ID, it.ID); err != nil {
			return apperror.NewStoreFailure(err)
		}

		return s.appendClearEntries(ctx, history.KindClearItem, binCode, rows, itemCode, &result)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "item cleared at bin", "bin", binCode, "item", itemCode, "groups", result.Groups, "pieces", result.Pieces)
	return &result, nil
}

// clearGroup accumulates removed rows sharing (item, PO, BT).
type clearGroup struct {
	itemCode    string
	customerPO  *string
	batchTag    *string
	totalPieces int
	// representative box configuration: the row with the largest total
	repBoxCount     int
	repPiecesPerBox int
	repTotal        int
}

// appendClearEntries groups removed rows and writes their audit entries.
// neutralItem is the item code recorded on the neutral entry when nothing
// was removed (empty for whole-bin clears).
func (s *Service) appendClearEntries(ctx context.Context, kind history.Kind, binCode string, rows []*ClearRow, neutralItem string, result *ClearResult) error {
	if len(rows) == 0 {
		entry := &history.Entry{
			Kind:     kind,
			BinCode:  binCode,
			ItemCode: neutralItem,
		}
		if err := s.history.Append(ctx, entry); err != nil {
			return apperror.NewStoreFailure(err)
		}
		return nil
	}

	groups := make(map[string]*clearGroup)
	var order []string
	for _, row := range rows {
		key := row.ItemCode + "\x00" + deref(row.CustomerPO) + "\x00" + deref(row.BatchTag)
		g, ok := groups[key]
		if !ok {
			g = &clearGroup{
				itemCode:   row.ItemCode,
				customerPO: row.CustomerPO,
				batchTag:   row.BatchTag,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.totalPieces += row.TotalPieces
		if row.TotalPieces > g.repTotal {
			g.repTotal = row.TotalPieces
			g.repBoxCount = row.BoxCount
			g.repPiecesPerBox = row.PiecesPerBox
		}
	}

	for _, key := range order {
		g := groups[key]
		entry := &history.Entry{
			Kind:         kind,
			BinCode:      binCode,
			ItemCode:     g.itemCode,
			CustomerPO:   g.customerPO,
			BatchTag:     g.batchTag,
			BoxCount:     g.repBoxCount,
			PiecesPerBox: g.repPiecesPerBox,
			TotalPieces:  -g.totalPieces,
		}
		if err := s.history.Append(ctx, entry); err != nil {
			return apperror.NewStoreFailure(err)
		}
		result.Groups++
		result.Pieces += g.totalPieces
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
