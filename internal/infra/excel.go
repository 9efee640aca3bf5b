package infra

// excel.go — Spreadsheet export using excelize. The workbook carries two
// sheets: SalesLog (append-only, one row per committed sale) and
// CurrentInventory (rewritten in full on every catalog change). The file is
// a convenience export for the shop owner; Postgres stays authoritative.

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSalesLog  = "SalesLog"
	sheetInventory = "CurrentInventory"
)

// SaleRow is one appended line of the SalesLog sheet.
type SaleRow struct {
	Timestamp     string
	ReceiptNumber string
	SellerName    string
	Items         string
	TotalAmount   string
}

// ExcelBook serializes all access to the workbook file. Concurrent workers
// appending to the same xlsx would corrupt it, so every operation holds the
// mutex for its full read-modify-write cycle.
type ExcelBook struct {
	mu   sync.Mutex
	path string
}

func NewExcelBook(path string) *ExcelBook {
	return &ExcelBook{path: path}
}

// AppendSaleRow adds one sale to the SalesLog sheet, creating the workbook
// and sheet on first use.
func (b *ExcelBook) AppendSaleRow(row SaleRow) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if mustSheetIndex(f, sheetSalesLog) < 0 {
		if _, err := f.NewSheet(sheetSalesLog); err != nil {
			return fmt.Errorf("excel: create sheet: %w", err)
		}
		header := []interface{}{"Date", "Receipt No", "Seller", "Items", "Total KES"}
		if err := f.SetSheetRow(sheetSalesLog, "A1", &header); err != nil {
			return fmt.Errorf("excel: write header: %w", err)
		}
	}

	rows, err := f.GetRows(sheetSalesLog)
	if err != nil {
		return fmt.Errorf("excel: read rows: %w", err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	values := []interface{}{row.Timestamp, row.ReceiptNumber, row.SellerName, row.Items, row.TotalAmount}
	if err := f.SetSheetRow(sheetSalesLog, cell, &values); err != nil {
		return fmt.Errorf("excel: append row: %w", err)
	}

	return b.save(f)
}

// WriteInventorySheet replaces the CurrentInventory sheet with a fresh dump
// of the catalog.
func (b *ExcelBook) WriteInventorySheet(products []model.Product) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := b.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if mustSheetIndex(f, sheetInventory) >= 0 {
		if err := f.DeleteSheet(sheetInventory); err != nil {
			return fmt.Errorf("excel: delete sheet: %w", err)
		}
	}
	if _, err := f.NewSheet(sheetInventory); err != nil {
		return fmt.Errorf("excel: create sheet: %w", err)
	}

	header := []interface{}{"Item Code", "Description", "Quantity", "Buying Price", "Regular Price", "Discount Price", "Profit/Item"}
	if err := f.SetSheetRow(sheetInventory, "A1", &header); err != nil {
		return fmt.Errorf("excel: write header: %w", err)
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			p.ItemCode,
			p.Description,
			p.Quantity,
			p.BuyingPrice.StringFixed(2),
			p.RegularPrice.StringFixed(2),
			p.DiscountPrice.StringFixed(2),
			p.RegularPrice.Sub(p.BuyingPrice).StringFixed(2),
		}
		if err := f.SetSheetRow(sheetInventory, cell, &values); err != nil {
			return fmt.Errorf("excel: write row: %w", err)
		}
	}

	return b.save(f)
}

// open loads the workbook, creating an empty one if the file does not exist.
func (b *ExcelBook) open() (*excelize.File, error) {
	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
			return nil, fmt.Errorf("excel: create dir: %w", err)
		}
		return excelize.NewFile(), nil
	}
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return nil, fmt.Errorf("excel: open %s: %w", b.path, err)
	}
	return f, nil
}

func (b *ExcelBook) save(f *excelize.File) error {
	if err := f.SaveAs(b.path); err != nil {
		return fmt.Errorf("excel: save %s: %w", b.path, err)
	}
	return nil
}

// mustSheetIndex returns the sheet index or -1 when the sheet is missing.
func mustSheetIndex(f *excelize.File, name string) int {
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return -1
	}
	return idx
}
