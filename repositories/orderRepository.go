package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/krishisathi/agrisetu-api/models"
	"github.com/krishisathi/agrisetu-api/services"
)

// OrderRepository implements services.OrderStore over gorm.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// CompareAndSwapStatus is a conditional update keyed on the previous status,
// so two concurrent transitions on the same order cannot both see the edge.
func (r *OrderRepository) CompareAndSwapStatus(ctx context.Context, id uint, prevStatus, newStatus string) (bool, error) {
	if prevStatus == newStatus {
		// Steady-state rewrite: nothing to swap, no edge to fire. MySQL
		// reports zero affected rows for a no-change UPDATE, so the
		// conditional form below cannot distinguish this from a lost
		// race. UpdatedAt is left alone and the row's existence was
		// already checked by the caller's FindByID.
		return true, nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND order_status = ?", id, prevStatus).
		Update("order_status", newStatus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
