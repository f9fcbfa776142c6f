package repo

import (
	"context"

	"github.com/mkozhevin/retail_orders/internal/models"
)

func (r *GormRepo) DeliveriesByShop(ctx context.Context, shopID uint) ([]models.Delivery, error) {
	var tiers []models.Delivery
	err := r.DB.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Order("min_sum ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

// UpsertDelivery creates or updates a tier keyed by (shop, min_sum).
// Tiers are never deleted.
func (r *GormRepo) UpsertDelivery(ctx context.Context, shopID, minSum, cost uint) error {
	tier := models.Delivery{ShopID: shopID, MinSum: minSum}
	return r.DB.WithContext(ctx).
		Where("shop_id = ? AND min_sum = ?", shopID, minSum).
		Assign(map[string]any{"cost": cost}).
		FirstOrCreate(&tier).Error
}
