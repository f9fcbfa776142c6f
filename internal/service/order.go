package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/logging"
	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// deliveryCosts annotates an order view with the per-shop shipping cost
// resolved at read time.
func (s *OrderService) deliveryCosts(ctx context.Context, orderID uint) ([]transport.DeliveryCostView, error) {
	subtotals, err := s.Repo.OrderShopSubtotals(ctx, orderID)
	if err != nil {
		return nil, err
	}

	views := make([]transport.DeliveryCostView, 0, len(subtotals))
	for _, st := range subtotals {
		view := transport.DeliveryCostView{Shop: st.Name, Subtotal: st.Subtotal}
		tiers, err := s.Repo.DeliveriesByShop(ctx, st.ShopID)
		if err != nil {
			return nil, err
		}
		if cost, ok := DeliveryCost(tiers, st.Subtotal); ok {
			c := cost
			view.Cost = &c
		}
		views = append(views, view)
	}
	return views, nil
}

// My lists the user's placed orders with computed totals and delivery
// costs.
func (s *OrderService) My(ctx context.Context, userID uint) ([]transport.OrderView, error) {
	orders, err := s.Repo.OrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]transport.OrderView, 0, len(orders))
	for i := range orders {
		view := transport.NewOrderView(&orders[i])
		view.Delivery, err = s.deliveryCosts(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Place turns the basket into a placed order. Every shop in the basket
// must resolve to a delivery tier before anything is persisted; any
// failure aborts the whole transition with per-shop diagnostics.
func (s *OrderService) Place(ctx context.Context, userID, addressID uint) error {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", userID)

	basket, err := s.Repo.Basket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(ErrNotFound, "Нет заказа со статусом корзины")
		}
		return err
	}
	if len(basket.Items) == 0 {
		return Errf(ErrValidation, "Корзина пуста")
	}

	subtotals, err := s.Repo.OrderShopSubtotals(ctx, basket.ID)
	if err != nil {
		return err
	}

	var problems []string
	for _, st := range subtotals {
		tiers, err := s.Repo.DeliveriesByShop(ctx, st.ShopID)
		if err != nil {
			return err
		}
		if len(tiers) == 0 {
			problems = append(problems, fmt.Sprintf("%s: стоимость доставки недоступна.", st.Name))
			continue
		}
		if _, ok := DeliveryCost(tiers, st.Subtotal); !ok {
			problems = append(problems, fmt.Sprintf("%s: сумма заказа меньше минимальной", st.Name))
		}
	}
	if len(problems) > 0 {
		return &Error{Kind: ErrValidation, Message: "доставка недоступна", Details: problems}
	}

	address, err := s.Repo.AddressByID(ctx, addressID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(ErrValidation, "Адрес не найден")
		}
		return err
	}

	if err := s.Repo.PlaceOrder(ctx, basket.ID, address.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(ErrNotFound, "Нет заказа со статусом корзины")
		}
		return err
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		l.Error("placed order but user lookup failed", "order_id", basket.ID, "error", err)
		return nil
	}

	userName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if userName == "" {
		userName = user.Email
	}

	key := fmt.Sprint(basket.ID)
	publish(ctx, s.Events, events.TopicOrderEvents, key, events.OrderStateChanged{
		Type:    events.TypeOrderStateChange,
		OrderID: basket.ID,
		UserID:  userID,
		Email:   user.Email,
		State:   models.StateNew,
	})
	publish(ctx, s.Events, events.TopicOrderEvents, key, events.NewOrderAdmin{
		Type:     events.TypeNewOrderAdmin,
		OrderID:  basket.ID,
		UserID:   userID,
		UserName: userName,
	})

	l.Info("order placed", "order_id", basket.ID)
	return nil
}
