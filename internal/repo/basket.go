package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/models"
)

// GetOrCreateBasket resolves the user's live basket, creating one when
// none exists. The partial unique index on orders backs the
// at-most-one-basket invariant against concurrent callers.
func (r *GormRepo) GetOrCreateBasket(ctx context.Context, userID uint) (*models.Order, error) {
	basket := models.Order{UserID: userID, State: models.StateBasket}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, models.StateBasket).
		FirstOrCreate(&basket).Error
	if err != nil {
		return nil, err
	}
	return &basket, nil
}

func (r *GormRepo) Basket(ctx context.Context, userID uint) (*models.Order, error) {
	var basket models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, models.StateBasket).
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.Parameters.Parameter").
		First(&basket).Error
	if err != nil {
		return nil, err
	}
	return &basket, nil
}

// AddBasketItems inserts the requested positions. A position already in
// the basket is a conflict and aborts the batch.
func (r *GormRepo) AddBasketItems(ctx context.Context, orderID uint, items []models.OrderItem) (int, error) {
	created := 0
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			items[i].OrderID = orderID

			var existing models.OrderItem
			err := tx.
				Where("order_id = ? AND product_info_id = ?", orderID, items[i].ProductInfoID).
				First(&existing).Error
			if err == nil {
				return ErrDuplicateItem
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

type ItemUpdate struct {
	ID       uint
	Quantity uint
}

// UpdateBasketItems applies quantity changes scoped to the basket.
// Quantity zero deletes the position.
func (r *GormRepo) UpdateBasketItems(ctx context.Context, orderID uint, updates []ItemUpdate) (updated, deleted int64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var deleteIDs []uint
		for _, u := range updates {
			if u.Quantity == 0 {
				deleteIDs = append(deleteIDs, u.ID)
				continue
			}
			res := tx.Model(&models.OrderItem{}).
				Where("order_id = ? AND id = ?", orderID, u.ID).
				Update("quantity", u.Quantity)
			if res.Error != nil {
				return res.Error
			}
			updated += res.RowsAffected
		}
		if len(deleteIDs) > 0 {
			res := tx.Where("order_id = ? AND id IN ?", orderID, deleteIDs).Delete(&models.OrderItem{})
			if res.Error != nil {
				return res.Error
			}
			deleted = res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return updated, deleted, nil
}

func (r *GormRepo) DeleteBasketItems(ctx context.Context, orderID uint, ids []uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, ids).
		Delete(&models.OrderItem{})
	return res.RowsAffected, res.Error
}
