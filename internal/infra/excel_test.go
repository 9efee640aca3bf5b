package infra_test

import (
	"path/filepath"
	"testing"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/infra"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelBook_AppendSaleRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SalesLog.xlsx")
	book := infra.NewExcelBook(path)

	require.NoError(t, book.AppendSaleRow(infra.SaleRow{
		Timestamp:     "2026-08-29 10:15:00",
		ReceiptNumber: "RCP-1756461300000",
		SellerName:    "Jane Wanjiru",
		Items:         "Cement 50kg (x2), Nails 3 inch kg (x5)",
		TotalAmount:   "2400.00",
	}))
	require.NoError(t, book.AppendSaleRow(infra.SaleRow{
		Timestamp:     "2026-08-29 10:20:00",
		ReceiptNumber: "RCP-1756461600000",
		SellerName:    "Jane Wanjiru",
		Items:         "Cement 50kg (x7)",
		TotalAmount:   "4900.00",
	}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("SalesLog")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Receipt No", rows[0][1])
	assert.Equal(t, "RCP-1756461300000", rows[1][1])
	assert.Equal(t, "RCP-1756461600000", rows[2][1])
	assert.Equal(t, "4900.00", rows[2][4])
}

func TestExcelBook_WriteInventorySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SalesLog.xlsx")
	book := infra.NewExcelBook(path)

	products := []model.Product{
		{
			ItemCode:      "CEM-001",
			Description:   "Cement 50kg",
			Quantity:      20,
			BuyingPrice:   decimal.NewFromInt(600),
			RegularPrice:  decimal.NewFromInt(750),
			DiscountPrice: decimal.NewFromInt(700),
		},
		{
			ItemCode:      "NLS-3IN",
			Description:   "Nails 3 inch kg",
			Quantity:      50,
			BuyingPrice:   decimal.NewFromInt(120),
			RegularPrice:  decimal.NewFromInt(180),
			DiscountPrice: decimal.NewFromInt(160),
		},
	}
	require.NoError(t, book.WriteInventorySheet(products))

	// A second write replaces the sheet instead of appending to it.
	require.NoError(t, book.WriteInventorySheet(products[:1]))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("CurrentInventory")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "CEM-001", rows[1][0])
	assert.Equal(t, "20", rows[1][2])
	assert.Equal(t, "150.00", rows[1][6])
}
