package worker

// excel_worker.go
// Processes spreadsheet jobs from QueueExcelSync. Sale rows are appended to
// the SalesLog sheet; inventory jobs rewrite the Inventory sheet from the
// live catalog. The spreadsheet is a convenience export — Postgres stays the
// source of truth, so failures retry and then go to the DLQ instead of
// affecting any sale.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/infra"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const excelMaxAttempts = 3

type ExcelWorker struct {
	book        *infra.ExcelBook
	productRepo repository.ProductRepository
	auditRepo   repository.AuditRepository
	rdb         *redis.Client
}

func NewExcelWorker(book *infra.ExcelBook, productRepo repository.ProductRepository, auditRepo repository.AuditRepository, rdb *redis.Client) *ExcelWorker {
	return &ExcelWorker{book: book, productRepo: productRepo, auditRepo: auditRepo, rdb: rdb}
}

func (w *ExcelWorker) Process(ctx context.Context, job Job) {
	switch job.Type {
	case JobSaleSync:
		w.processSaleSync(ctx, job.Payload)
	case JobInventorySync:
		w.processInventorySync(ctx)
	default:
		log.Warn().Str("type", job.Type).Msg("excel_worker: unknown job type")
	}
}

func (w *ExcelWorker) processSaleSync(ctx context.Context, raw json.RawMessage) {
	var payload SaleSyncPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("excel_worker: invalid sale_sync payload")
		return
	}

	row := infra.SaleRow{
		Timestamp:     time.Now().Format("2006-01-02 15:04:05"),
		ReceiptNumber: payload.ReceiptNumber,
		SellerName:    payload.SellerName,
		Items:         strings.Join(payload.Items, ", "),
		TotalAmount:   payload.TotalAmount,
	}

	err := withRetry(ctx, excelMaxAttempts, func(attempt int) error {
		if err := w.book.AppendSaleRow(row); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Str("receipt", payload.ReceiptNumber).
				Msg("excel_worker: sale append failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueExcelSync, JobSaleSync, raw,
			fmt.Sprintf("sale append failed after %d attempts: %v", excelMaxAttempts, err),
			excelMaxAttempts)
		return
	}
	log.Info().Str("receipt", payload.ReceiptNumber).Msg("excel_worker: sale row appended")
}

func (w *ExcelWorker) processInventorySync(ctx context.Context) {
	products, err := w.productRepo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("excel_worker: failed to load catalog for sync")
		return
	}

	err = withRetry(ctx, excelMaxAttempts, func(attempt int) error {
		if err := w.book.WriteInventorySheet(products); err != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).
				Msg("excel_worker: inventory sheet write failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueExcelSync, JobInventorySync, json.RawMessage(`{}`),
			fmt.Sprintf("inventory sheet write failed after %d attempts: %v", excelMaxAttempts, err),
			excelMaxAttempts)
		return
	}

	// Audit trail marker so the sync shows up alongside the stock changes
	// that triggered it.
	if appendErr := w.auditRepo.Append(ctx, &model.InventoryAuditEntry{
		ChangeType: model.AuditExcelSync,
		Notes:      fmt.Sprintf("Inventory sheet synced (%d products)", len(products)),
	}); appendErr != nil {
		log.Error().Err(appendErr).Msg("excel_worker: failed to append sync audit entry")
	}
	log.Info().Int("products", len(products)).Msg("excel_worker: inventory sheet synced")
}
