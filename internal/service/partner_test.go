package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

const priceListYAML = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
  - id: 15
    name: Аксессуары
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": 6.5
      "Цвет": золотистый
  - id: 4216313
    category: 15
    model: apple/case
    name: Чехол для iPhone XS Max
    price: 1500
    price_rrc: 1990
    quantity: 30
`

func createPartner(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	user := models.User{Email: email, Company: "Связной", Type: models.UserTypeShop, Active: true}
	require.NoError(t, user.SetPassword("correct-horse"))
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func TestUpdatePriceList(t *testing.T) {
	r := testRepo(t)
	pub := &fakePublisher{}
	svc := &PartnerService{Repo: r, Events: pub}
	partner := createPartner(t, r, "shop@example.com")
	ctx := context.Background()

	require.NoError(t, svc.UpdatePriceList(ctx, partner.ID, "", []byte(priceListYAML)))

	shop, err := svc.Shop(ctx, partner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Связной", shop.Name)
	assert.True(t, shop.UpToDate)

	infos, err := r.ShopListings(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	listed, err := r.SearchListings(ctx, shop.ID, 224)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.EqualValues(t, 110000, listed[0].Price)
	require.Len(t, listed[0].Parameters, 2)

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.TopicPriceEvents, pub.published[0].Topic)
	updated, ok := pub.published[0].Event.(events.PriceListUpdated)
	require.True(t, ok)
	assert.Equal(t, "Связной", updated.ShopName)
	assert.Equal(t, partner.Email, updated.Email)
}

func TestUpdatePriceListReplacesListings(t *testing.T) {
	r := testRepo(t)
	svc := &PartnerService{Repo: r, Events: &fakePublisher{}}
	partner := createPartner(t, r, "shop@example.com")
	ctx := context.Background()

	require.NoError(t, svc.UpdatePriceList(ctx, partner.ID, "", []byte(priceListYAML)))

	second := `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
goods:
  - id: 5000001
    category: 224
    model: samsung/galaxy/s23
    name: Смартфон Samsung Galaxy S23
    price: 80000
    price_rrc: 84990
    quantity: 7
`
	require.NoError(t, svc.UpdatePriceList(ctx, partner.ID, "", []byte(second)))

	shop, err := svc.Shop(ctx, partner.ID)
	require.NoError(t, err)

	infos, err := r.ShopListings(ctx, shop.ID)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.EqualValues(t, 5000001, infos[0].ExternalID)

	// No parameter rows may survive from the replaced listings.
	var orphans int64
	require.NoError(t, r.DB.Model(&models.ProductParameter{}).Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestUpdatePriceListMalformed(t *testing.T) {
	r := testRepo(t)
	svc := &PartnerService{Repo: r, Events: &fakePublisher{}}
	partner := createPartner(t, r, "shop@example.com")

	err := svc.UpdatePriceList(context.Background(), partner.ID, "", []byte("goods: {broken"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePriceListBadURL(t *testing.T) {
	r := testRepo(t)
	svc := &PartnerService{Repo: r, Events: &fakePublisher{}}
	partner := createPartner(t, r, "shop@example.com")

	err := svc.UpdatePriceList(context.Background(), partner.ID, "ftp://feeds.example.com/price.yaml", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetState(t *testing.T) {
	r := testRepo(t)
	svc := &PartnerService{Repo: r, Events: &fakePublisher{}}
	partner := createPartner(t, r, "shop@example.com")
	shop, _ := seedListing(t, r, partner.ID, "Связной", 500)
	ctx := context.Background()

	require.NoError(t, svc.SetState(ctx, partner.ID, "off"))

	var check models.Shop
	require.NoError(t, r.DB.First(&check, shop.ID).Error)
	assert.False(t, check.State)

	require.NoError(t, svc.SetState(ctx, partner.ID, "1"))
	require.NoError(t, r.DB.First(&check, shop.ID).Error)
	assert.True(t, check.State)

	err := svc.SetState(ctx, partner.ID, "maybe")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), `invalid truth value "maybe"`)
}

func TestSetStateNoShop(t *testing.T) {
	r := testRepo(t)
	svc := &PartnerService{Repo: r, Events: &fakePublisher{}}
	partner := createPartner(t, r, "shop@example.com")

	err := svc.SetState(context.Background(), partner.ID, "on")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetDeliveries(t *testing.T) {
	r := testRepo(t)
	svc := &PartnerService{Repo: r, Events: &fakePublisher{}}
	partner := createPartner(t, r, "shop@example.com")
	seedListing(t, r, partner.ID, "Связной", 500)
	ctx := context.Background()

	require.NoError(t, svc.SetDeliveries(ctx, partner.ID, []transport.DeliveryTierRequest{
		{MinSum: 1000, Cost: 100},
		{MinSum: 0, Cost: 300},
	}))

	tiers, err := svc.Deliveries(ctx, partner.ID)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.EqualValues(t, 0, tiers[0].MinSum)
	assert.EqualValues(t, 1000, tiers[1].MinSum)

	// Re-posting an existing min_sum updates its cost, down to zero.
	require.NoError(t, svc.SetDeliveries(ctx, partner.ID, []transport.DeliveryTierRequest{
		{MinSum: 1000, Cost: 0},
	}))

	tiers, err = svc.Deliveries(ctx, partner.ID)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.EqualValues(t, 0, tiers[1].Cost)
}

func TestPartnerOrders(t *testing.T) {
	r := testRepo(t)
	pub := &fakePublisher{}
	partnerSvc := &PartnerService{Repo: r, Events: pub}
	orderSvc := &OrderService{Repo: r, Events: &fakePublisher{}}
	buyer := createBuyer(t, r, "ivan@example.com")
	partner := createPartner(t, r, "shop@example.com")
	other := createPartner(t, r, "other@example.com")
	shop, info := seedListing(t, r, partner.ID, "Связной", 500)
	address := createAddress(t, r, buyer.ID)
	ctx := context.Background()

	require.NoError(t, r.UpsertDelivery(ctx, shop.ID, 0, 100))
	fillBasket(t, r, buyer.ID, info, 2)
	require.NoError(t, orderSvc.Place(ctx, buyer.ID, address.ID))

	views, err := partnerSvc.Orders(ctx, partner.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.StateNew, views[0].State)
	assert.EqualValues(t, 1000, views[0].TotalSum)

	views, err = partnerSvc.Orders(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestPartnerSetOrderState(t *testing.T) {
	r := testRepo(t)
	pub := &fakePublisher{}
	partnerSvc := &PartnerService{Repo: r, Events: pub}
	orderSvc := &OrderService{Repo: r, Events: &fakePublisher{}}
	buyer := createBuyer(t, r, "ivan@example.com")
	partner := createPartner(t, r, "shop@example.com")
	other := createPartner(t, r, "other@example.com")
	shop, info := seedListing(t, r, partner.ID, "Связной", 500)
	address := createAddress(t, r, buyer.ID)
	ctx := context.Background()

	require.NoError(t, r.UpsertDelivery(ctx, shop.ID, 0, 100))
	fillBasket(t, r, buyer.ID, info, 2)
	require.NoError(t, orderSvc.Place(ctx, buyer.ID, address.ID))

	var order models.Order
	require.NoError(t, r.DB.Where("user_id = ?", buyer.ID).First(&order).Error)

	// Someone else's shop cannot touch the order.
	err := partnerSvc.SetOrderState(ctx, other.ID, order.ID, models.StateConfirmed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	err = partnerSvc.SetOrderState(ctx, partner.ID, order.ID, "shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	err = partnerSvc.SetOrderState(ctx, partner.ID, order.ID, models.StateBasket)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, partnerSvc.SetOrderState(ctx, partner.ID, order.ID, models.StateConfirmed))

	require.NoError(t, r.DB.First(&order, order.ID).Error)
	assert.Equal(t, models.StateConfirmed, order.State)

	require.Len(t, pub.published, 1)
	changed, ok := pub.published[0].Event.(events.OrderStateChanged)
	require.True(t, ok)
	assert.Equal(t, models.StateConfirmed, changed.State)
	assert.Equal(t, buyer.Email, changed.Email)
}
