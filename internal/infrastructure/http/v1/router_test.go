package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bintrack/internal/core/apperror"
	"bintrack/internal/core/id"
	"bintrack/internal/domain/catalogs/bin"
	"bintrack/internal/domain/catalogs/item"
	"bintrack/internal/domain/history"
	"bintrack/internal/domain/ledger"
	"bintrack/internal/domain/reports"
	"bintrack/internal/infrastructure/export"
	"bintrack/pkg/logger"
)

// --- In-memory store shared by the fake repositories ---

type memStore struct {
	bins       map[string]*bin.Bin
	items      map[string]*item.Item
	placements []*ledger.Placement
	history    []*history.Entry
}

func newMemStore(binCodes ...string) *memStore {
	s := &memStore{
		bins:  make(map[string]*bin.Bin),
		items: make(map[string]*item.Item),
	}
	for _, code := range binCodes {
		s.bins[code] = bin.New(code)
	}
	return s
}

func (s *memStore) itemCode(itemID id.ID) string {
	for code, i := range s.items {
		if i.ID == itemID {
			return code
		}
	}
	return ""
}

func (s *memStore) binCode(binID id.ID) string {
	for code, b := range s.bins {
		if b.ID == binID {
			return code
		}
	}
	return ""
}

type memTx struct{}

func (memTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memBinRepo struct{ s *memStore }

func (r memBinRepo) GetByCode(_ context.Context, code string) (*bin.Bin, error) {
	if b, ok := r.s.bins[code]; ok {
		return b, nil
	}
	return nil, apperror.NewBinNotFound(code)
}

func (r memBinRepo) Search(_ context.Context, term string, limit int) ([]*bin.Bin, error) {
	var out []*bin.Bin
	for code, b := range r.s.bins {
		if strings.Contains(code, term) && len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r memBinRepo) Create(_ context.Context, b *bin.Bin) error {
	r.s.bins[b.Code] = b
	return nil
}

func (r memBinRepo) Count(_ context.Context) (int64, error) { return int64(len(r.s.bins)), nil }

type memItemRepo struct{ s *memStore }

func (r memItemRepo) GetByCode(_ context.Context, code string) (*item.Item, error) {
	if i, ok := r.s.items[code]; ok {
		return i, nil
	}
	return nil, apperror.NewItemNotFound(code)
}

func (r memItemRepo) Search(_ context.Context, term string, limit int) ([]*item.Item, error) {
	var out []*item.Item
	for code, i := range r.s.items {
		if strings.Contains(code, term) && len(out) < limit {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r memItemRepo) Create(_ context.Context, i *item.Item) error {
	r.s.items[i.Code] = i
	return nil
}

func (r memItemRepo) Ensure(_ context.Context, code string) (*item.Item, error) {
	if i, ok := r.s.items[code]; ok {
		return i, nil
	}
	i := item.New(code)
	r.s.items[code] = i
	return i, nil
}

func (r memItemRepo) Count(_ context.Context) (int64, error) { return int64(len(r.s.items)), nil }

type memLedgerRepo struct{ s *memStore }

func strOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (r memLedgerRepo) FindMergeTarget(_ context.Context, binID, itemID id.ID, customerPO, batchTag *string, piecesPerBox int) (*ledger.Placement, error) {
	for _, p := range r.s.placements {
		if p.BinID == binID && p.ItemID == itemID &&
			strOf(p.CustomerPO) == strOf(customerPO) &&
			strOf(p.BatchTag) == strOf(batchTag) &&
			p.PiecesPerBox == piecesPerBox {
			return p, nil
		}
	}
	return nil, nil
}

func (r memLedgerRepo) Insert(_ context.Context, p *ledger.Placement) error {
	r.s.placements = append(r.s.placements, p)
	return nil
}

func (r memLedgerRepo) IncrementBoxes(_ context.Context, placementID id.ID, boxes int) error {
	for _, p := range r.s.placements {
		if p.ID == placementID {
			p.BoxCount += boxes
			p.TotalPieces = p.BoxCount * p.PiecesPerBox
			return nil
		}
	}
	return assert.AnError
}

func (r memLedgerRepo) clearRows(binID id.ID, itemID *id.ID) []*ledger.ClearRow {
	var out []*ledger.ClearRow
	for _, p := range r.s.placements {
		if p.BinID != binID || (itemID != nil && p.ItemID != *itemID) {
			continue
		}
		out = append(out, &ledger.ClearRow{
			ItemID:       p.ItemID,
			ItemCode:     r.s.itemCode(p.ItemID),
			CustomerPO:   p.CustomerPO,
			BatchTag:     p.BatchTag,
			BoxCount:     p.BoxCount,
			PiecesPerBox: p.PiecesPerBox,
			TotalPieces:  p.TotalPieces,
		})
	}
	return out
}

func (r memLedgerRepo) RowsForClear(_ context.Context, binID id.ID) ([]*ledger.ClearRow, error) {
	return r.clearRows(binID, nil), nil
}

func (r memLedgerRepo) RowsForClearItem(_ context.Context, binID, itemID id.ID) ([]*ledger.ClearRow, error) {
	return r.clearRows(binID, &itemID), nil
}

func (r memLedgerRepo) deleteWhere(match func(*ledger.Placement) bool) int64 {
	var kept []*ledger.Placement
	var deleted int64
	for _, p := range r.s.placements {
		if match(p) {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	r.s.placements = kept
	return deleted
}

func (r memLedgerRepo) DeleteByBin(_ context.Context, binID id.ID) (int64, error) {
	return r.deleteWhere(func(p *ledger.Placement) bool { return p.BinID == binID }), nil
}

func (r memLedgerRepo) DeleteByBinItem(_ context.Context, binID, itemID id.ID) (int64, error) {
	return r.deleteWhere(func(p *ledger.Placement) bool { return p.BinID == binID && p.ItemID == itemID }), nil
}

type memHistoryRepo struct{ s *memStore }

func (r memHistoryRepo) Append(_ context.Context, e *history.Entry) error {
	e.ID = int64(len(r.s.history) + 1)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	r.s.history = append(r.s.history, e)
	return nil
}

func (r memHistoryRepo) List(_ context.Context, _ *time.Time) ([]*history.Entry, error) {
	out := make([]*history.Entry, len(r.s.history))
	for i, e := range r.s.history {
		out[len(r.s.history)-1-i] = e
	}
	return out, nil
}

type memReportRepo struct{ s *memStore }

func (r memReportRepo) rows(match func(reports.Row) bool) []reports.Row {
	var out []reports.Row
	for _, p := range r.s.placements {
		row := reports.Row{
			BinCode:      r.s.binCode(p.BinID),
			ItemCode:     r.s.itemCode(p.ItemID),
			CustomerPO:   strOf(p.CustomerPO),
			BatchTag:     strOf(p.BatchTag),
			BoxCount:     p.BoxCount,
			PiecesPerBox: p.PiecesPerBox,
			TotalPieces:  p.TotalPieces,
		}
		if match(row) {
			out = append(out, row)
		}
	}
	return out
}

func (r memReportRepo) RowsByBin(_ context.Context, binCode string) ([]reports.Row, error) {
	return r.rows(func(row reports.Row) bool { return row.BinCode == binCode }), nil
}

func (r memReportRepo) RowsByItem(_ context.Context, itemCode string) ([]reports.Row, error) {
	return r.rows(func(row reports.Row) bool { return row.ItemCode == itemCode }), nil
}

func (r memReportRepo) RowsByBatchTag(_ context.Context, batchTag string) ([]reports.Row, error) {
	return r.rows(func(row reports.Row) bool { return row.BatchTag == batchTag }), nil
}

func (r memReportRepo) RowsByCustomerPO(_ context.Context, customerPO string) ([]reports.Row, error) {
	return r.rows(func(row reports.Row) bool { return row.CustomerPO == customerPO }), nil
}

func (r memReportRepo) AllRows(_ context.Context) ([]reports.Row, error) {
	return r.rows(func(reports.Row) bool { return true }), nil
}

func (r memReportRepo) DistinctBatchTags(_ context.Context, _ string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, row := range r.rows(func(reports.Row) bool { return true }) {
		if row.BatchTag != "" && !seen[row.BatchTag] {
			seen[row.BatchTag] = true
			out = append(out, row.BatchTag)
		}
	}
	return out, nil
}

func (r memReportRepo) DistinctCustomerPOs(_ context.Context, _ string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, row := range r.rows(func(reports.Row) bool { return true }) {
		if row.CustomerPO != "" && !seen[row.CustomerPO] {
			seen[row.CustomerPO] = true
			out = append(out, row.CustomerPO)
		}
	}
	return out, nil
}

// --- Test server ---

func newTestRouter(s *memStore) http.Handler {
	binRepo := memBinRepo{s}
	itemRepo := memItemRepo{s}
	ledgerSvc := ledger.NewService(binRepo, itemRepo, memLedgerRepo{s}, memHistoryRepo{s}, memTx{})
	reportsSvc := reports.NewService(memReportRepo{s})
	historySvc := history.NewService(memHistoryRepo{s})

	return NewRouter(RouterConfig{
		Logger:   logger.Default(),
		Bins:     bin.NewService(binRepo),
		Items:    item.NewService(itemRepo),
		Ledger:   ledgerSvc,
		Reports:  reportsSvc,
		History:  historySvc,
		Exporter: export.NewExporter(reportsSvc, historySvc),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestPlacementRoundTrip(t *testing.T) {
	router := newTestRouter(newMemStore("A1"))

	rec, payload := doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"A1","item_code":"SKU1","box_count":2,"pieces_per_box":10,"customer_po":"PO-1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(20), payload["total_pieces"])

	rec, payload = doJSON(t, router, http.MethodGet, "/api/inventory/bin/A1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(20), payload["totalPieces"])
}

func TestPlacementUnknownBinReturns400WithBilingualMessage(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, payload := doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"ZZZ","item_code":"SKU1","box_count":1,"pieces_per_box":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeBinNotFound, payload["code"])
	assert.NotEmpty(t, payload["message_zh"])
}

func TestAggregationReadOnUnknownItemReturnsEmptyShape(t *testing.T) {
	router := newTestRouter(newMemStore("A1"))

	rec, payload := doJSON(t, router, http.MethodGet, "/api/inventory/item/NOPE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), payload["totalPieces"])
}

func TestEncodedPathSegmentsAreDecoded(t *testing.T) {
	s := newMemStore("A1")
	router := newTestRouter(s)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"A1","item_code":"A3422/H GREY","box_count":1,"pieces_per_box":4}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, payload := doJSON(t, router, http.MethodGet,
		"/api/inventory/item/A3422___SLASH___H___SPACE___GREY", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), payload["totalPieces"])
}

func TestClearBinRoute(t *testing.T) {
	s := newMemStore("A1")
	router := newTestRouter(s)

	doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"A1","item_code":"SKU1","box_count":2,"pieces_per_box":10}`)

	rec, payload := doJSON(t, router, http.MethodDelete, "/api/inventory/bin/A1/clear", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(20), payload["pieces"])
	assert.Empty(t, s.placements)
}

func TestLogsNewestFirst(t *testing.T) {
	s := newMemStore("A1")
	router := newTestRouter(s)

	doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"A1","item_code":"SKU1","box_count":1,"pieces_per_box":1}`)
	doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"A1","item_code":"SKU2","box_count":1,"pieces_per_box":1}`)

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "SKU2", entries[0]["item_code"])
	assert.Equal(t, "SKU1", entries[1]["item_code"])
}

func TestHealthProbesWithoutPool(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec, payload := doJSON(t, router, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", payload["status"])

	rec, payload = doJSON(t, router, http.MethodGet, "/health/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", payload["status"])
}

func TestExportItemsReturnsWorkbook(t *testing.T) {
	s := newMemStore("A1")
	router := newTestRouter(s)

	doJSON(t, router, http.MethodPost, "/api/inventory",
		`{"bin_code":"A1","item_code":"SKU1","box_count":2,"pieces_per_box":10}`)

	req := httptest.NewRequest(http.MethodGet, "/api/export/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotZero(t, rec.Body.Len())
}
