package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/krishisathi/agrisetu-api/models"
	"github.com/krishisathi/agrisetu-api/services"
)

// ProductRepository implements services.ProductStore over gorm.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// AdjustStock adds delta to the stock counter in a single atomic UPDATE.
// The guard keeps stock from going negative under concurrent deliveries.
func (r *ProductRepository) AdjustStock(ctx context.Context, productID uint, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrProductNotFound
	}
	return nil
}
