package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/domain/history"
)

// --- In-memory fakes ---

type fakeTxManager struct{}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeBins struct {
	byCode map[string]*bin.Bin
}

func newFakeBins(codes ...string) *fakeBins {
	f := &fakeBins{byCode: make(map[string]*bin.Bin)}
	for _, code := range codes {
		f.byCode[code] = bin.New(code)
	}
	return f
}

func (f *fakeBins) GetByCode(_ context.Context, code string) (*bin.Bin, error) {
	if b, ok := f.byCode[code]; ok {
		return b, nil
	}
	return nil, apperror.NewBinNotFound(code)
}

type fakeItems struct {
	byCode map[string]*item.Item
}

func newFakeItems(codes ...string) *fakeItems {
	f := &fakeItems{byCode: make(map[string]*item.Item)}
	for _, code := range codes {
		f.byCode[code] = item.New(code)
	}
	return f
}

func (f *fakeItems) GetByCode(_ context.Context, code string) (*item.Item, error) {
	if i, ok := f.byCode[code]; ok {
		return i, nil
	}
	return nil, apperror.NewItemNotFound(code)
}

func (f *fakeItems) Ensure(_ context.Context, code string) (*item.Item, error) {
	if i, ok := f.byCode[code]; ok {
		return i, nil
	}
	i := item.New(code)
	f.byCode[code] = i
	return i, nil
}

func (f *fakeItems) codeOf(itemID id.ID) string {
	for code, i := range f.byCode {
		if i.ID == itemID {
			return code
		}
	}
	return ""
}

type fakeLedger struct {
	items *fakeItems
	rows  []*Placement
}

func (f *fakeLedger) FindMergeTarget(_ context.Context, binID, itemID id.ID, customerPO, batchTag *string, piecesPerBox int) (*Placement, error) {
	for _, p := range f.rows {
		if p.BinID == binID && p.ItemID == itemID &&
			deref(p.CustomerPO) == deref(customerPO) &&
			deref(p.BatchTag) == deref(batchTag) &&
			p.PiecesPerBox == piecesPerBox {
			// Return a snapshot, like the real repo scanning a row does;
			// the service mutates its copy after calling IncrementBoxes.
			snapshot := *p
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) Insert(_ context.Context, p *Placement) error {
	f.rows = append(f.rows, p)
	return nil
}

func (f *fakeLedger) IncrementBoxes(_ context.Context, placementID id.ID, boxes int) error {
	for _, p := range f.rows {
		if p.ID == placementID {
			p.BoxCount += boxes
			p.TotalPieces = p.BoxCount * p.PiecesPerBox
			p.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return assert.AnError
}

func (f *fakeLedger) RowsForClear(_ context.Context, binID id.ID) ([]*ClearRow, error) {
	var out []*ClearRow
	for _, p := range f.rows {
		if p.BinID == binID {
			out = append(out, f.toClearRow(p))
		}
	}
	return out, nil
}

func (f *fakeLedger) RowsForClearItem(_ context.Context, binID, itemID id.ID) ([]*ClearRow, error) {
	var out []*ClearRow
	for _, p := range f.rows {
		if p.BinID == binID && p.ItemID == itemID {
			out = append(out, f.toClearRow(p))
		}
	}
	return out, nil
}

func (f *fakeLedger) toClearRow(p *Placement) *ClearRow {
	return &ClearRow{
		ItemID:       p.ItemID,
		ItemCode:     f.items.codeOf(p.ItemID),
		CustomerPO:   p.CustomerPO,
		BatchTag:     p.BatchTag,
		BoxCount:     p.BoxCount,
		PiecesPerBox: p.PiecesPerBox,
		TotalPieces:  p.TotalPieces,
	}
}

func (f *fakeLedger) DeleteByBin(_ context.Context, binID id.ID) (int64, error) {
	var kept []*Placement
	var deleted int64
	for _, p := range f.rows {
		if p.BinID == binID {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	f.rows = kept
	return deleted, nil
}

func (f *fakeLedger) DeleteByBinItem(_ context.Context, binID, itemID id.ID) (int64, error) {
	var kept []*Placement
	var deleted int64
	for _, p := range f.rows {
		if p.BinID == binID && p.ItemID == itemID {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	f.rows = kept
	return deleted, nil
}

type fakeHistory struct {
	entries []*history.Entry
	nextID  int64
}

func (f *fakeHistory) Append(_ context.Context, e *history.Entry) error {
	f.nextID++
	e.ID = f.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeHistory) List(_ context.Context, _ *time.Time) ([]*history.Entry, error) {
	out := make([]*history.Entry, len(f.entries))
	for i, e := range f.entries {
		out[len(f.entries)-1-i] = e
	}
	return out, nil
}

type fixture struct {
	svc     *Service
	bins    *fakeBins
	items   *fakeItems
	ledger  *fakeLedger
	history *fakeHistory
}

func newFixture(binCodes, itemCodes []string) *fixture {
	bins := newFakeBins(binCodes...)
	items := newFakeItems(itemCodes...)
	ledgerRepo := &fakeLedger{items: items}
	hist := &fakeHistory{}
	return &fixture{
		svc:     NewService(bins, items, ledgerRepo, hist, &fakeTxManager{}),
		bins:    bins,
		items:   items,
		ledger:  ledgerRepo,
		history: hist,
	}
}

func place(t *testing.T, f *fixture, binCode, itemCode string, boxes, ppb int, po, bt string) *PlaceResult {
	t.Helper()
	result, err := f.svc.AddPlacement(context.Background(), PlacementInput{
		BinCode:      binCode,
		ItemCode:     itemCode,
		BoxCount:     boxes,
		PiecesPerBox: ppb,
		CustomerPO:   po,
		BatchTag:     bt,
	})
	require.NoError(t, err)
	return result
}

// --- Placement ---

func TestAddPlacementMergesSameConfig(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1"})

	first := place(t, f, "A1", "SKU1", 2, 10, "", "")
	assert.False(t, first.Merged)

	second := place(t, f, "A1", "SKU1", 3, 10, "", "")
	assert.True(t, second.Merged)

	require.Len(t, f.ledger.rows, 1)
	assert.Equal(t, 5, f.ledger.rows[0].BoxCount)
	assert.Equal(t, 50, f.ledger.rows[0].TotalPieces)

	// History records the deltas, not the post-merge total.
	require.Len(t, f.history.entries, 2)
	assert.Equal(t, 20, f.history.entries[0].TotalPieces)
	assert.Equal(t, 30, f.history.entries[1].TotalPieces)
	assert.Equal(t, history.KindPlacement, f.history.entries[0].Kind)
}

func TestAddPlacementDifferentPOStaysSeparate(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1"})

	place(t, f, "A1", "SKU1", 2, 10, "PO-1", "")
	place(t, f, "A1", "SKU1", 3, 10, "PO-2", "")

	assert.Len(t, f.ledger.rows, 2)
}

func TestAddPlacementUnknownBinFails(t *testing.T) {
	f := newFixture(nil, []string{"SKU1"})

	_, err := f.svc.AddPlacement(context.Background(), PlacementInput{
		BinCode: "ZZZ", ItemCode: "SKU1", BoxCount: 1, PiecesPerBox: 1,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBinNotFound, appErr.Code)

	// No ledger or history mutation.
	assert.Empty(t, f.ledger.rows)
	assert.Empty(t, f.history.entries)
}

func TestAddPlacementAutoCreatesItem(t *testing.T) {
	f := newFixture([]string{"A1"}, nil)

	place(t, f, "A1", "NEWSKU", 1, 12, "", "")

	_, ok := f.items.byCode["NEWSKU"]
	assert.True(t, ok)
	assert.Len(t, f.ledger.rows, 1)
	assert.Len(t, f.history.entries, 1)
}

func TestAddPlacementRejectsNegativeQuantities(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1"})

	for _, input := range []PlacementInput{
		{BinCode: "A1", ItemCode: "SKU1", BoxCount: -2, PiecesPerBox: 10},
		{BinCode: "A1", ItemCode: "SKU1", BoxCount: 2, PiecesPerBox: -1},
	} {
		_, err := f.svc.AddPlacement(context.Background(), input)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
	}
	assert.Empty(t, f.ledger.rows)
}

func TestAddPlacementAllowsZeroQuantities(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1"})

	res, err := f.svc.AddPlacement(context.Background(), PlacementInput{
		BinCode: "A1", ItemCode: "SKU1", BoxCount: 0, PiecesPerBox: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Placement.TotalPieces)
	assert.Len(t, f.history.entries, 1)
}

func TestAddPlacementKeepsRowInvariant(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1"})

	place(t, f, "A1", "SKU1", 3, 7, "PO-1", "BT-1")
	place(t, f, "A1", "SKU1", 2, 7, "PO-1", "BT-1")

	for _, p := range f.ledger.rows {
		assert.Equal(t, p.TotalPieces, p.BoxCount*p.PiecesPerBox)
	}
}

// --- Clearing ---

func TestClearBinGroupsAndNegativeEntries(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1", "SKU2"})

	place(t, f, "A1", "SKU1", 2, 10, "", "")
	place(t, f, "A1", "SKU1", 1, 50, "", "")
	place(t, f, "A1", "SKU2", 4, 5, "PO-9", "")

	result, err := f.svc.ClearBin(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Groups)
	assert.Equal(t, 90, result.Pieces)
	assert.Empty(t, f.ledger.rows)

	// Three placement entries plus one clear entry per group.
	require.Len(t, f.history.entries, 5)

	sku1 := f.history.entries[3]
	assert.Equal(t, history.KindClearBin, sku1.Kind)
	assert.Equal(t, "SKU1", sku1.ItemCode)
	assert.Equal(t, -70, sku1.TotalPieces)
	// Representative config is the largest removed row (1 x 50).
	assert.Equal(t, 1, sku1.BoxCount)
	assert.Equal(t, 50, sku1.PiecesPerBox)

	sku2 := f.history.entries[4]
	assert.Equal(t, "SKU2", sku2.ItemCode)
	assert.Equal(t, -20, sku2.TotalPieces)
}

func TestClearEmptyBinAppendsOneNeutralEntry(t *testing.T) {
	f := newFixture([]string{"A1"}, nil)

	result, err := f.svc.ClearBin(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Groups)

	require.Len(t, f.history.entries, 1)
	e := f.history.entries[0]
	assert.Equal(t, history.KindClearBin, e.Kind)
	assert.Equal(t, "A1", e.BinCode)
	assert.Equal(t, "", e.ItemCode)
	assert.Zero(t, e.TotalPieces)
}

func TestClearItemAtBinScopesToItem(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1", "SKU2"})

	place(t, f, "A1", "SKU1", 2, 10, "", "")
	place(t, f, "A1", "SKU2", 1, 5, "", "")

	result, err := f.svc.ClearItemAtBin(context.Background(), "A1", "SKU1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Groups)
	assert.Equal(t, 20, result.Pieces)

	// SKU2 stays.
	require.Len(t, f.ledger.rows, 1)
	assert.Equal(t, f.items.byCode["SKU2"].ID, f.ledger.rows[0].ItemID)

	last := f.history.entries[len(f.history.entries)-1]
	assert.Equal(t, history.KindClearItem, last.Kind)
	assert.Equal(t, -20, last.TotalPieces)
}

func TestClearItemAtBinUnknownItemFails(t *testing.T) {
	f := newFixture([]string{"A1"}, []string{"SKU1"})

	_, err := f.svc.ClearItemAtBin(context.Background(), "A1", "NOPE")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeItemNotFound, appErr.Code)
}

// TestReconciliationLaw checks that summing history deltas per bin+item
// reproduces the ledger's current quantity after a mixed sequence.
func TestReconciliationLaw(t *testing.T) {
	f := newFixture([]string{"A1", "B2"}, []string{"SKU1"})

	place(t, f, "A1", "SKU1", 2, 10, "", "")
	place(t, f, "A1", "SKU1", 3, 10, "", "")
	place(t, f, "B2", "SKU1", 1, 40, "", "")
	_, err := f.svc.ClearItemAtBin(context.Background(), "A1", "SKU1")
	require.NoError(t, err)
	place(t, f, "A1", "SKU1", 4, 5, "", "")

	var historySum int
	for _, e := range f.history.entries {
		if e.BinCode == "A1" && e.ItemCode == "SKU1" {
			historySum += e.TotalPieces
		}
	}

	var ledgerSum int
	binID := f.bins.byCode["A1"].ID
	for _, p := range f.ledger.rows {
		if p.BinID == binID {
			ledgerSum += p.TotalPieces
		}
	}

	assert.Equal(t, ledgerSum, historySum)
	assert.Equal(t, 20, ledgerSum)
}
