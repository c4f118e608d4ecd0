package repository

import (
	"context"
	"time"

	"adhub/internal/domain"
	"adhub/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByProviderRef(ctx context.Context, ref string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).Where("provider_ref = ?", ref).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Complete flips a PENDING or FAILED payment to COMPLETED. A confirmed charge
// always wins over an earlier failure. False means it was already completed.
func (r *PaymentRepository) Complete(ctx context.Context, id uint, at time.Time) (bool, error) {
	return r.settle(ctx, id,
		[]string{domain.PaymentStatusPending, domain.PaymentStatusFailed},
		map[string]interface{}{"status": domain.PaymentStatusCompleted, "completed_at": at})
}

// Fail flips a PENDING payment to FAILED. False means it was already settled.
func (r *PaymentRepository) Fail(ctx context.Context, id uint) (bool, error) {
	return r.settle(ctx, id,
		[]string{domain.PaymentStatusPending},
		map[string]interface{}{"status": domain.PaymentStatusFailed})
}

func (r *PaymentRepository) settle(ctx context.Context, id uint, from []string, fields map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
