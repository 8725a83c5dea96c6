// Package export renders inventory and history data as xlsx workbooks.
package export

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"bintrack/internal/domain/history"
	"bintrack/internal/domain/reports"
)

const sheet = "Sheet1"

// Exporter writes spreadsheet renderings of the aggregation and history
// queries. It formats what the domain services compute.
type Exporter struct {
	reports *reports.Service
	history *history.Service
}

// NewExporter creates an exporter over the report and history services.
func NewExporter(reportsSvc *reports.Service, historySvc *history.Service) *Exporter {
	return &Exporter{reports: reportsSvc, history: historySvc}
}

// WriteItems renders a per-item summary: totals plus the comma-joined list
// of bins currently holding the item.
func (e *Exporter) WriteItems(ctx context.Context, w io.Writer) error {
	rows, err := e.reports.AllRows(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	writeHeaders(f, []string{"Item Code", "Total Quantity", "Total Boxes", "Bin Locations"})

	type itemTotals struct {
		pieces int
		boxes  int
		bins   []string
	}
	byItem := make(map[string]*itemTotals)
	var itemOrder []string
	for _, r := range rows {
		t, ok := byItem[r.ItemCode]
		if !ok {
			t = &itemTotals{}
			byItem[r.ItemCode] = t
			itemOrder = append(itemOrder, r.ItemCode)
		}
		t.pieces += r.TotalPieces
		t.boxes += r.BoxCount
		if len(t.bins) == 0 || t.bins[len(t.bins)-1] != r.BinCode {
			t.bins = append(t.bins, r.BinCode)
		}
	}
	sort.Strings(itemOrder)

	for i, code := range itemOrder {
		t := byItem[code]
		setRow(f, i+2, []any{code, t.pieces, t.boxes, strings.Join(t.bins, ", ")})
	}

	return f.Write(w)
}

// WriteBins renders the whole ledger grouped by bin, merging the bin
// column across each bin's rows.
func (e *Exporter) WriteBins(ctx context.Context, w io.Writer) error {
	rows, err := e.reports.AllRows(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Bin", "Item", "Customer PO", "BT", "Boxes", "Pieces/Box", "Total Pieces"}
	writeHeaders(f, headers)

	rowNo := 2
	var currentBin string
	binStart := 2
	for _, r := range rows {
		if r.BinCode != currentBin {
			if currentBin != "" {
				mergeColumn(f, "A", binStart, rowNo-1)
			}
			currentBin = r.BinCode
			binStart = rowNo
		}
		setRow(f, rowNo, []any{r.BinCode, r.ItemCode, r.CustomerPO, r.BatchTag, r.BoxCount, r.PiecesPerBox, r.TotalPieces})
		rowNo++
	}
	if currentBin != "" {
		mergeColumn(f, "A", binStart, rowNo-1)
	}

	return f.Write(w)
}

// WriteHistory renders the audit trail newest-first, optionally filtered
// to one calendar date (YYYY-MM-DD).
func (e *Exporter) WriteHistory(ctx context.Context, w io.Writer, date string) error {
	entries, err := e.history.Logs(ctx, date)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	headers := []string{"Time", "Action", "Bin", "Item", "Customer PO", "BT", "Boxes", "Pieces/Box", "Total Pieces"}
	writeHeaders(f, headers)

	for i, entry := range entries {
		po, bt := "", ""
		if entry.CustomerPO != nil {
			po = *entry.CustomerPO
		}
		if entry.BatchTag != nil {
			bt = *entry.BatchTag
		}
		setRow(f, i+2, []any{
			entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			string(entry.Kind),
			entry.BinCode,
			entry.ItemCode,
			po,
			bt,
			entry.BoxCount,
			entry.PiecesPerBox,
			entry.TotalPieces,
		})
	}

	return f.Write(w)
}

func writeHeaders(f *excelize.File, headers []string) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, col+"1", h)
	}
}

func setRow(f *excelize.File, rowNo int, values []any) {
	for i, v := range values {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, rowNo), v)
	}
}

// mergeColumn merges a vertical cell range when it spans more than one row.
func mergeColumn(f *excelize.File, col string, from, to int) {
	if to > from {
		f.MergeCell(sheet, fmt.Sprintf("%s%d", col, from), fmt.Sprintf("%s%d", col, to))
	}
}
