package repository

import (
	"context"
	"errors"
	"fmt"

	"adhub/internal/domain"
	"adhub/internal/models"

	"gorm.io/gorm"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) WithTx(tx *gorm.DB) *WalletRepository {
	return &WalletRepository{db: tx}
}

// Create opens the single wallet a user may have, starting at zero.
func (r *WalletRepository) Create(ctx context.Context, userID uint, externalCustomerID *string, currency string) (*models.Wallet, error) {
	var existing int64
	if err := r.db.WithContext(ctx).Model(&models.Wallet{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, domain.ErrDuplicateWallet
	}
	w := &models.Wallet{UserID: userID, ExternalPaymentCustomerID: externalCustomerID, Amount: 0, Currency: currency}
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateWallet
		}
		return nil, err
	}
	return w, nil
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		return nil, translate(err)
	}
	return &w, nil
}

// UpdateAmount applies amount += delta in a single UPDATE and returns the new row.
// Negative deltas only match while the balance covers them, so the balance
// never goes below zero: a miss on an existing wallet is ErrInsufficientFunds.
func (r *WalletRepository) UpdateAmount(ctx context.Context, userID uint, delta int64) (*models.Wallet, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidAmount
	}
	q := r.db.WithContext(ctx).Model(&models.Wallet{}).Where("user_id = ?", userID)
	if delta < 0 {
		q = q.Where("amount >= ?", -delta)
	}
	res := q.UpdateColumn("amount", gorm.Expr("amount + ?", delta))
	if res.Error != nil {
		return nil, fmt.Errorf("update wallet amount: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByUserID(ctx, userID); err != nil {
			return nil, err
		}
		return nil, domain.ErrInsufficientFunds
	}
	return r.GetByUserID(ctx, userID)
}

func (r *WalletRepository) SetExternalCustomerID(ctx context.Context, userID uint, customerID string) error {
	res := r.db.WithContext(ctx).Model(&models.Wallet{}).Where("user_id = ?", userID).
		Update("external_payment_customer_id", customerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
