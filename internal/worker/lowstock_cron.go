package worker

// lowstock_cron.go
// Background goroutine that periodically scans the catalog for products at
// or below their low-stock threshold and emails the admin a summary. Each
// alert leaves a NOTIFICATION row in the audit trail so repeat alerts can
// be traced.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"

	"github.com/rs/zerolog/log"
)

// LowStockCronConfig holds all dependencies for the monitor goroutine.
type LowStockCronConfig struct {
	ProductRepo repository.ProductRepository
	AuditRepo   repository.AuditRepository
	Dispatcher  *Dispatcher
	AdminEmail  string
	Interval    time.Duration
}

// StartLowStockCron launches a background goroutine that ticks on the
// configured interval, runs one check immediately at startup, and respects
// the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 12 * time.Hour
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("lowstock_cron: started")
		checkLowStock(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				checkLowStock(ctx, cfg)
			}
		}
	}()
}

func checkLowStock(ctx context.Context, cfg LowStockCronConfig) {
	products, err := cfg.ProductRepo.ListLowStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to query low stock products")
		return
	}
	if len(products) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("The following products are running low:\n\n")
	for _, p := range products {
		b.WriteString(fmt.Sprintf("  %s — %s: %d remaining (threshold %d)\n",
			p.ItemCode, p.Description, p.Quantity, p.LowStockThreshold))
	}
	b.WriteString("\nRestock soon to avoid blocked sales.\n")

	payload := EmailJobPayload{
		ToEmail: cfg.AdminEmail,
		Subject: fmt.Sprintf("Low stock alert: %d products", len(products)),
		Body:    b.String(),
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to enqueue alert email")
		return
	}

	if err := cfg.AuditRepo.Append(ctx, &model.InventoryAuditEntry{
		ChangeType: model.AuditNotification,
		Notes:      fmt.Sprintf("Low stock alert sent for %d products", len(products)),
	}); err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to append notification audit entry")
	}
	log.Info().Int("count", len(products)).Msg("lowstock_cron: alert enqueued")
}
