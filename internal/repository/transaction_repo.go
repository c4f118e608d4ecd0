package repository

import (
	"context"
	"errors"

	"adhub/internal/domain"
	"adhub/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository is the append-only ledger. It exposes no update or delete.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// Create appends an entry. A second pay or refund for the same order violates
// the (order_id, type) index and is reported as ErrIntegrity.
func (r *TransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	if t.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	err := r.db.WithContext(ctx).Create(t).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrIntegrity
	}
	return err
}

// ListByWalletID returns the wallet's entries oldest first.
func (r *TransactionRepository) ListByWalletID(ctx context.Context, walletID uint) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.WithContext(ctx).Where("wallet_id = ?", walletID).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *TransactionRepository) ListByOrderID(ctx context.Context, orderID uint) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *TransactionRepository) GetByOrderAndType(ctx context.Context, orderID uint, txType string) (*models.Transaction, error) {
	var t models.Transaction
	if err := r.db.WithContext(ctx).Where("order_id = ? AND type = ?", orderID, txType).First(&t).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}
