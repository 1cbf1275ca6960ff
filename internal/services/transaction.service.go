package services

import (
	"context"

	"muster/internal/database"
	"muster/internal/logger"

	"gorm.io/gorm"
)

type transactionKey struct{}

// GetTransaction returns the transaction bound to ctx, if any. Repositories
// call this so writes inside TransactionService.Execute share one tx.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(transactionKey{}).(*gorm.DB)
	return tx, ok
}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a database transaction exposed through the context.
func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	log := s.log.Function("Execute")

	return s.db.SQLWithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, transactionKey{}, tx)
		if err := fn(txCtx); err != nil {
			log.Er("transaction rolled back", err)
			return err
		}
		return nil
	})
}
