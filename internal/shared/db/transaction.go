// Package db carries the transaction plumbing shared by the repositories.
// A transaction travels through context so a usecase can span several
// repository calls: the bonus claim path locks the usage row, writes the
// evidence, and updates credits as one unit.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TransactionManager wraps a gorm handle and scopes callbacks to a single
// database transaction.
type TransactionManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// RunInTransaction runs fn inside one transaction. The transactional handle
// rides in the returned context; repositories pick it up through
// GetTxFromContext. fn returning an error rolls everything back.
func (tm *TransactionManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// GetTx returns the transaction bound to ctx, or the base handle when the
// caller is not inside RunInTransaction.
func (tm *TransactionManager) GetTx(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return tm.db.WithContext(ctx)
}

// GetTxFromContext is the repository-side accessor: it joins the ambient
// transaction when one is present and falls back to defaultDB otherwise,
// so every repository method works both inside and outside a transaction.
func GetTxFromContext(ctx context.Context, defaultDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return defaultDB.WithContext(ctx)
}
