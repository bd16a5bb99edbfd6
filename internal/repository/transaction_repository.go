package repository

import (
	"context"
	"time"

	"github.com/tigearis/finsight/internal/models"
	"gorm.io/gorm"
)

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Transaction, error)
	FindByUser(ctx context.Context, userID uint) ([]models.Transaction, error)
	FindByUserSince(ctx context.Context, userID uint, since time.Time) ([]models.Transaction, error)
	List(ctx context.Context, userID uint, query *ListQuery) ([]models.Transaction, int64, error)
	DistinctUserIDs(ctx context.Context) ([]uint, error)
	Create(ctx context.Context, tx *models.Transaction) error
	CreateBatch(ctx context.Context, txs []models.Transaction) error
}

// transactionSortable lists the columns list callers may order by.
var transactionSortable = map[string]bool{
	"date":       true,
	"amount":     true,
	"merchant":   true,
	"category":   true,
	"created_at": true,
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) FindByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) FindByUserSince(ctx context.Context, userID uint, since time.Time) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&txs).Error
	return txs, err
}

func (r *transactionRepository) List(ctx context.Context, userID uint, query *ListQuery) ([]models.Transaction, int64, error) {
	var txs []models.Transaction
	var total int64

	base := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := query.orderClause(transactionSortable, "date DESC")
	err := base.Order(sort).Offset(query.offset()).Limit(query.limit()).Find(&txs).Error
	return txs, total, err
}

func (r *transactionRepository) DistinctUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Distinct("user_id").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) CreateBatch(ctx context.Context, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(txs, 500).Error
}
