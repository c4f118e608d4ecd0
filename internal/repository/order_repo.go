package repository

import (
	"context"

	"adhub/internal/domain"
	"adhub/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) WithTx(tx *gorm.DB) *OrderRepository {
	return &OrderRepository{db: tx}
}

func (r *OrderRepository) Create(ctx context.Context, userID uint, serviceName string, amount int64, details models.RawJSON) (*models.Order, error) {
	o := &models.Order{
		UserID:      userID,
		ServiceName: serviceName,
		Status:      domain.OrderStatusPending,
		Amount:      amount,
		Details:     details,
	}
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// ListByUserID returns the user's orders newest first.
func (r *OrderRepository) ListByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// UpdateStatus overwrites the status unconditionally. Callers that need the
// pending-only rule use TransitionFromPending.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// TransitionFromPending moves a pending order to status. It reports false,
// without error, when the order exists but is no longer pending.
func (r *OrderRepository) TransitionFromPending(ctx context.Context, id uint, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, domain.OrderStatusPending).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *OrderRepository) UpdateDetails(ctx context.Context, id uint, details models.RawJSON) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("details", details)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
