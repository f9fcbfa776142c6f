package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type BasketService struct {
	Repo *repo.GormRepo
}

// Get returns the basket view with the running total; an empty view
// when the user has no basket yet.
func (s *BasketService) Get(ctx context.Context, userID uint) (*transport.OrderView, error) {
	basket, err := s.Repo.Basket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &transport.OrderView{State: models.StateBasket, Items: []transport.OrderItemView{}}, nil
		}
		return nil, err
	}
	view := transport.NewOrderView(basket)
	return &view, nil
}

func (s *BasketService) Add(ctx context.Context, userID uint, items []transport.BasketItemRequest) (int, error) {
	if len(items) == 0 {
		return 0, errMissingFields()
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.ProductInfo == 0 || item.Quantity == 0 {
			return 0, Errf(ErrValidation, "Неверный формат запроса")
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductInfoID: item.ProductInfo,
			Quantity:      item.Quantity,
		})
	}

	basket, err := s.Repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return 0, err
	}

	created, err := s.Repo.AddBasketItems(ctx, basket.ID, orderItems)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateItem) {
			return 0, Errf(ErrConflict, "Позиция уже есть в корзине")
		}
		return 0, err
	}
	return created, nil
}

// Update changes position quantities; quantity zero deletes the
// position.
func (s *BasketService) Update(ctx context.Context, userID uint, items []transport.BasketUpdateItem) (updated, deleted int64, err error) {
	if len(items) == 0 {
		return 0, 0, errMissingFields()
	}

	basket, err := s.Repo.Basket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, Errf(ErrNotFound, "Нет заказа со статусом корзины")
		}
		return 0, 0, err
	}

	changes := make([]repo.ItemUpdate, 0, len(items))
	for _, item := range items {
		if item.ID == 0 {
			return 0, 0, Errf(ErrValidation, "Неверный формат запроса")
		}
		changes = append(changes, repo.ItemUpdate{ID: item.ID, Quantity: item.Quantity})
	}

	updated, deleted, err = s.Repo.UpdateBasketItems(ctx, basket.ID, changes)
	if err != nil {
		return 0, 0, err
	}
	if updated == 0 && deleted == 0 {
		return 0, 0, Errf(ErrNotFound, "Нет таких позиций в корзине")
	}
	return updated, deleted, nil
}

func (s *BasketService) Delete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, errMissingFields()
	}

	basket, err := s.Repo.Basket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, Errf(ErrNotFound, "Нет заказа со статусом корзины")
		}
		return 0, err
	}

	return s.Repo.DeleteBasketItems(ctx, basket.ID, ids)
}
