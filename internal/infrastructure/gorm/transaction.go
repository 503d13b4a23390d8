package gormdb

import (
	"context"

	"github.com/mirola777/payhook/internal/domain"
	"gorm.io/gorm"
)

type txKey struct{}

type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) domain.TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction commits when fn returns nil. Called again inside fn it
// joins the outer transaction through a savepoint, so an inner failure rolls
// back only the inner work and the outer caller decides on the rest.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return ExtractTx(ctx, tm.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// ExtractTx returns the transaction carried by ctx, or fallback outside one.
func ExtractTx(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback
}
