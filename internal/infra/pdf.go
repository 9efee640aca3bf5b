package infra

// pdf.go — Printable receipt generation using go-pdf/fpdf.
// Receipts render from the immutable snapshot stored at sale time, never
// from the live catalog, so a reprint months later shows the prices that
// were actually charged.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a receipt snapshot as a thermal-printer-sized
// PDF. storagePath is the directory where the file is written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReceiptPDF(data *dto.ReceiptData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("%s.pdf", data.ReceiptNumber)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm wide — close to 80mm thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 140},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "ELSHADAI HARDWARE", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Receipt info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, data.ReceiptNumber, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, data.CreatedAt, "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, "Served by: "+data.SellerName, "", 1, "L", false, 0, "")
	if data.CustomerPhone != nil {
		pdf.CellFormat(contentW, 4, "Customer: "+*data.CustomerPhone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // description
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range data.Items {
		desc := item.Description
		if len(desc) > 22 {
			desc = desc[:21] + "…"
		}
		pdf.CellFormat(col1, 5, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "KES "+item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !data.DiscountAmount.IsZero() {
		pdf.CellFormat(col1+col2, 5, fmt.Sprintf("Loyalty discount (%s%%):", data.DiscountPercentage.StringFixed(0)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-KES "+data.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if !data.ManualDiscount.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Discount:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-KES "+data.ManualDiscount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "KES "+data.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payment ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1+col2, 4, "Paid via "+data.PaymentMethod+":", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 4, "KES "+data.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	if data.MpesaReference != nil {
		pdf.CellFormat(contentW, 4, "M-Pesa ref: "+*data.MpesaReference, "", 1, "L", false, 0, "")
	}

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for your business!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
