package service

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs one unit of work in a database transaction. Every write the
// sale committer makes between Committing and Committed goes through the same
// handle, so an aborted commit leaves no partial effect behind.
type TxManager interface {
	Run(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) TxManager { return &gormTxManager{db: db} }

func (m *gormTxManager) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
