package model

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is the immutable serialized snapshot of a completed sale. Data holds
// the JSON document (dto.ReceiptData) verbatim; it is written once after the
// sale commits and is never mutated.
type Receipt struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber string    `gorm:"uniqueIndex;not null"`
	SaleID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Data          []byte    `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time
}
