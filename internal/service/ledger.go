package service

import (
	"context"
	"time"

	"github.com/RonnieLihanda/Elshadai-Hardware/internal/apierror"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/dto"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/model"
	"github.com/RonnieLihanda/Elshadai-Hardware/internal/repository"

	"github.com/rs/zerolog/log"
)

// Ledger is the append-only inventory audit trail. Writes are best-effort: a
// failed append is logged and swallowed, never blocking or rolling back the
// operation it documents.
type Ledger struct {
	repo repository.AuditRepository
}

func NewLedger(repo repository.AuditRepository) *Ledger {
	return &Ledger{repo: repo}
}

// Record appends one ledger row. Failures are logged with the entry context
// and swallowed.
func (l *Ledger) Record(ctx context.Context, e *model.InventoryAuditEntry) {
	if err := l.repo.Append(ctx, e); err != nil {
		log.Error().
			Err(err).
			Str("change_type", e.ChangeType).
			Str("item_code", e.ItemCode).
			Int("quantity_changed", e.QuantityChanged).
			Msg("ledger: failed to append inventory audit entry")
	}
}

// List returns ledger entries, newest first, filtered by product and type.
func (l *Ledger) List(ctx context.Context, filter dto.AuditFilter) ([]dto.AuditEntryResponse, error) {
	if filter.Limit < 1 {
		filter.Limit = 200
	}
	entries, err := l.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Persistence(err)
	}
	out := make([]dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		var productID *string
		if e.ProductID != nil {
			id := e.ProductID.String()
			productID = &id
		}
		out[i] = dto.AuditEntryResponse{
			ID:              e.ID.String(),
			ProductID:       productID,
			ItemCode:        e.ItemCode,
			Description:     e.Description,
			ChangeType:      e.ChangeType,
			QuantityChanged: e.QuantityChanged,
			BeforeQuantity:  e.BeforeQuantity,
			AfterQuantity:   e.AfterQuantity,
			Notes:           e.Notes,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		}
	}
	return out, nil
}
