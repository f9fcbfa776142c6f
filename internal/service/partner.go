package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/feed"
	"github.com/mkozhevin/retail_orders/internal/logging"
	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/search"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type PartnerService struct {
	Repo    *repo.GormRepo
	Fetcher *feed.Fetcher
	Index   *search.Index
	Events  events.Publisher
}

// UpdatePriceList ingests a price feed for the partner's shop, either
// fetched from a URL or uploaded as a raw document. Fetch failures and
// parse failures surface as distinct errors.
func (s *PartnerService) UpdatePriceList(ctx context.Context, userID uint, rawURL string, data []byte) error {
	l := logging.FromContext(ctx).With("svc", "partner.update", "user_id", userID)

	if rawURL != "" {
		if err := feed.ValidateURL(rawURL); err != nil {
			return Errf(ErrValidation, "Некорректный url: %v", err)
		}
		fetched, err := s.Fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return Errf(ErrUpstream, "Не удалось получить прайс-лист: %v", err)
		}
		data = fetched
	}
	if len(data) == 0 {
		return errMissingFields()
	}

	pl, err := feed.Parse(data)
	if err != nil {
		return Errf(ErrValidation, "Не удалось разобрать прайс-лист: %v", err)
	}

	shop, err := s.Repo.GetOrCreateShop(ctx, pl.Shop, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.ImportPriceList(ctx, shop, pl); err != nil {
		return err
	}
	if rawURL != "" && shop.URL != rawURL {
		shop.URL = rawURL
		if err := s.Repo.SaveShop(ctx, shop); err != nil {
			l.Error("feed url not saved", "shop_id", shop.ID, "error", err)
		}
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err == nil {
		publish(ctx, s.Events, events.TopicPriceEvents, fmt.Sprint(shop.ID), events.PriceListUpdated{
			Type:     events.TypePriceListUpdated,
			ShopName: shop.Name,
			Email:    user.Email,
		})
	}

	s.reindex(ctx, shop)
	l.Info("price list imported", "shop_id", shop.ID, "goods", len(pl.Goods))
	return nil
}

// reindex refreshes the search index; the database already holds the
// import, so index trouble is logged and not surfaced.
func (s *PartnerService) reindex(ctx context.Context, shop *models.Shop) {
	if s.Index == nil {
		return
	}
	infos, err := s.Repo.ShopListings(ctx, shop.ID)
	if err != nil {
		logging.FromContext(ctx).Error("listings not loaded for reindex", "shop_id", shop.ID, "error", err)
		return
	}
	if err := s.Index.ReindexShop(ctx, shop, infos); err != nil {
		logging.FromContext(ctx).Error("search reindex failed", "shop_id", shop.ID, "error", err)
	}
}

func (s *PartnerService) Shop(ctx context.Context, userID uint) (*models.Shop, error) {
	shop, err := s.Repo.ShopByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errf(ErrNotFound, "Магазин не найден")
		}
		return nil, err
	}
	return shop, nil
}

// SetState toggles whether the shop accepts orders. Accepted spellings
// follow strtobool: 1/0, true/false, yes/no, on/off, y/n, t/f.
func (s *PartnerService) SetState(ctx context.Context, userID uint, state string) error {
	var value bool
	switch strings.ToLower(state) {
	case "1", "true", "yes", "on", "y", "t":
		value = true
	case "0", "false", "no", "off", "n", "f":
		value = false
	default:
		return Errf(ErrValidation, "invalid truth value %q", state)
	}

	affected, err := s.Repo.SetShopState(ctx, userID, value)
	if err != nil {
		return err
	}
	if affected == 0 {
		return Errf(ErrNotFound, "Магазин не найден")
	}
	return nil
}

// Orders lists placed orders that include the partner's listings.
func (s *PartnerService) Orders(ctx context.Context, userID uint) ([]transport.OrderView, error) {
	orders, err := s.Repo.OrdersByPartner(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]transport.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, transport.NewOrderView(&orders[i]))
	}
	return views, nil
}

// SetOrderState moves one of the partner's orders along the fulfillment
// chain and notifies the buyer.
func (s *PartnerService) SetOrderState(ctx context.Context, userID, orderID uint, state string) error {
	if !models.ValidState(state) || state == models.StateBasket {
		return Errf(ErrValidation, "Недопустимый статус заказа: %s", state)
	}

	ok, err := s.Repo.PartnerHasOrder(ctx, userID, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return Errf(ErrNotFound, "Заказ не найден")
	}

	if err := s.Repo.SetOrderState(ctx, orderID, state); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Errf(ErrNotFound, "Заказ не найден")
		}
		return err
	}

	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		logging.FromContext(ctx).Error("state changed but order lookup failed", "order_id", orderID, "error", err)
		return nil
	}
	publish(ctx, s.Events, events.TopicOrderEvents, fmt.Sprint(orderID), events.OrderStateChanged{
		Type:    events.TypeOrderStateChange,
		OrderID: orderID,
		UserID:  order.UserID,
		Email:   order.User.Email,
		State:   state,
	})
	return nil
}

func (s *PartnerService) Deliveries(ctx context.Context, userID uint) ([]models.Delivery, error) {
	shop, err := s.Shop(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Repo.DeliveriesByShop(ctx, shop.ID)
}

// SetDeliveries creates or updates cost tiers keyed by minimum sum.
func (s *PartnerService) SetDeliveries(ctx context.Context, userID uint, tiers []transport.DeliveryTierRequest) error {
	if len(tiers) == 0 {
		return errMissingFields()
	}

	shop, err := s.Shop(ctx, userID)
	if err != nil {
		return err
	}
	for _, tier := range tiers {
		if err := s.Repo.UpsertDelivery(ctx, shop.ID, tier.MinSum, tier.Cost); err != nil {
			return err
		}
	}
	return nil
}
