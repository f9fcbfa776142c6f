package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/models"
)

// ShopSubtotal is a shop's share of one order: the sum of
// quantity*price across its listings.
type ShopSubtotal struct {
	ShopID   uint
	Name     string
	Subtotal uint
}

func orderPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Preload("Items.ProductInfo.Parameters.Parameter").
		Preload("Address")
}

// OrdersByUser lists placed orders, newest first. The live basket is
// not an order yet and is excluded.
func (r *GormRepo) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := orderPreloads(r.DB.WithContext(ctx)).
		Where("user_id = ? AND state <> ?", userID, models.StateBasket).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// OrdersByPartner lists placed orders containing at least one listing
// of the partner's shop.
func (r *GormRepo) OrdersByPartner(ctx context.Context, partnerUserID uint) ([]models.Order, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Distinct("orders.id").
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("shops.user_id = ? AND orders.state <> ?", partnerUserID, models.StateBasket).
		Pluck("orders.id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var orders []models.Order
	err = orderPreloads(r.DB.WithContext(ctx)).
		Preload("User").
		Where("id IN ?", ids).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) OrderShopSubtotals(ctx context.Context, orderID uint) ([]ShopSubtotal, error) {
	var rows []ShopSubtotal
	err := r.DB.WithContext(ctx).
		Table("order_items").
		Select("shops.id AS shop_id, shops.name AS name, SUM(order_items.quantity * product_infos.price) AS subtotal").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("order_items.order_id = ?", orderID).
		Group("shops.id, shops.name").
		Order("shops.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PlaceOrder flips the basket into a placed order with its delivery
// address set. RowsAffected of zero means the basket vanished under us.
func (r *GormRepo) PlaceOrder(ctx context.Context, orderID, addressID uint) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND state = ?", orderID, models.StateBasket).
		Updates(map[string]any{"address_id": addressID, "state": models.StateNew})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("User").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// PartnerHasOrder reports whether the order contains a listing sold by
// the partner's shop.
func (r *GormRepo) PartnerHasOrder(ctx context.Context, partnerUserID, orderID uint) (bool, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&models.OrderItem{}).
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Where("order_items.order_id = ? AND shops.user_id = ?", orderID, partnerUserID).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *GormRepo) SetOrderState(ctx context.Context, orderID uint, state string) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("state", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
