package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
)

func testRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	return &repo.GormRepo{DB: db}
}

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

type fakePublisher struct {
	published []publishedEvent
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, event any) error {
	f.published = append(f.published, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func createBuyer(t *testing.T, r *repo.GormRepo, email string) *models.User {
	t.Helper()

	user := models.User{
		Email:     email,
		FirstName: "Иван",
		LastName:  "Петров",
		Company:   "ООО Ромашка",
		Position:  "менеджер",
		Type:      models.UserTypeBuyer,
		Active:    true,
	}
	require.NoError(t, user.SetPassword("correct-horse"))
	require.NoError(t, r.DB.Create(&user).Error)
	return &user
}

func createAddress(t *testing.T, r *repo.GormRepo, userID uint) *models.Address {
	t.Helper()

	address := models.Address{UserID: userID, City: "Москва", Street: "Тверская"}
	require.NoError(t, r.DB.Create(&address).Error)
	return &address
}

// seedListing creates a shop for ownerID with a single sellable listing
// at the given price, returning the shop and the listing.
func seedListing(t *testing.T, r *repo.GormRepo, ownerID uint, shopName string, price uint) (*models.Shop, *models.ProductInfo) {
	t.Helper()

	shop := models.Shop{Name: shopName, UserID: ownerID}
	require.NoError(t, r.DB.Create(&shop).Error)

	category := models.Category{Name: "Смартфоны"}
	require.NoError(t, r.DB.Where("name = ?", category.Name).FirstOrCreate(&category).Error)

	product := models.Product{Name: fmt.Sprintf("товар магазина %d", shop.ID), CategoryID: category.ID}
	require.NoError(t, r.DB.Create(&product).Error)

	info := models.ProductInfo{
		ProductID:  product.ID,
		ShopID:     shop.ID,
		ExternalID: shop.ID*100 + 1,
		Model:      "base",
		Price:      price,
		PriceRRC:   price,
		Quantity:   10,
	}
	require.NoError(t, r.DB.Create(&info).Error)

	return &shop, &info
}
