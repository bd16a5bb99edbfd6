package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/tigearis/finsight/internal/models"
	"github.com/tigearis/finsight/internal/repository"
	"gorm.io/gorm"
)

// TransactionService manages the imported ledger the detectors read.
type TransactionService struct {
	transactionRepo repository.TransactionRepository
}

func NewTransactionService(transactionRepo repository.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

func (s *TransactionService) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.transactionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) List(ctx context.Context, userID uint, query *repository.ListQuery) ([]models.Transaction, int64, error) {
	return s.transactionRepo.List(ctx, userID, query)
}

func (s *TransactionService) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.Merchant == "" {
		return fmt.Errorf("merchant is required")
	}
	return s.transactionRepo.Create(ctx, tx)
}

// Import persists a batch of transactions, typically from a bank feed or
// file upload.
func (s *TransactionService) Import(ctx context.Context, userID uint, transactions []models.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	for i := range transactions {
		transactions[i].UserID = userID
	}
	if err := s.transactionRepo.CreateBatch(ctx, transactions); err != nil {
		return 0, fmt.Errorf("importing transactions: %w", err)
	}
	return len(transactions), nil
}
