package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/feed"
	"github.com/mkozhevin/retail_orders/internal/models"
)

func (r *GormRepo) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ActiveShops lists only shops currently accepting orders.
func (r *GormRepo) ActiveShops(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.DB.WithContext(ctx).Where("state = ?", true).Order("id ASC").Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *GormRepo) ShopByUser(ctx context.Context, userID uint) (*models.Shop, error) {
	var shop models.Shop
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *GormRepo) GetOrCreateShop(ctx context.Context, name string, userID uint) (*models.Shop, error) {
	shop := models.Shop{Name: name, UserID: userID}
	err := r.DB.WithContext(ctx).
		Where("name = ? AND user_id = ?", name, userID).
		FirstOrCreate(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *GormRepo) SaveShop(ctx context.Context, shop *models.Shop) error {
	return r.DB.WithContext(ctx).Save(shop).Error
}

func (r *GormRepo) SetShopState(ctx context.Context, userID uint, state bool) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Shop{}).
		Where("user_id = ?", userID).
		Update("state", state)
	return res.RowsAffected, res.Error
}

// SearchListings filters the sellable listings of active shops. Zero
// filter values mean "any".
func (r *GormRepo) SearchListings(ctx context.Context, shopID, categoryID uint) ([]models.ProductInfo, error) {
	q := r.DB.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Joins("JOIN products ON products.id = product_infos.product_id").
		Where("shops.state = ?", true)

	if shopID != 0 {
		q = q.Where("product_infos.shop_id = ?", shopID)
	}
	if categoryID != 0 {
		q = q.Where("products.category_id = ?", categoryID)
	}

	var infos []models.ProductInfo
	err := q.
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters.Parameter").
		Order("product_infos.id ASC").
		Find(&infos).Error
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// ShopListings returns the current listing set of one shop, preloaded
// for search reindexing.
func (r *GormRepo) ShopListings(ctx context.Context, shopID uint) ([]models.ProductInfo, error) {
	var infos []models.ProductInfo
	err := r.DB.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Preload("Product").
		Find(&infos).Error
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// ImportPriceList replaces a shop's catalog snapshot with the feed
// content: categories are upserted by id+name and attached to the shop,
// the old listings are dropped, and each good becomes a fresh
// ProductInfo with its parameters. One transaction, so a failed import
// never leaves the shop empty.
func (r *GormRepo) ImportPriceList(ctx context.Context, shop *models.Shop, pl *feed.PriceList) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range pl.Categories {
			category := models.Category{ID: c.ID}
			if err := tx.Where("id = ?", c.ID).Attrs(models.Category{Name: c.Name}).FirstOrCreate(&category).Error; err != nil {
				return err
			}
			if err := tx.Model(shop).Association("Categories").Append(&category); err != nil {
				return err
			}
		}

		old := tx.Model(&models.ProductInfo{}).Select("id").Where("shop_id = ?", shop.ID)
		if err := tx.Where("product_info_id IN (?)", old).Delete(&models.ProductParameter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id = ?", shop.ID).Delete(&models.ProductInfo{}).Error; err != nil {
			return err
		}

		for _, good := range pl.Goods {
			product := models.Product{Name: good.Name, CategoryID: good.Category}
			if err := tx.Where("name = ? AND category_id = ?", good.Name, good.Category).FirstOrCreate(&product).Error; err != nil {
				return err
			}

			info := models.ProductInfo{
				ProductID:  product.ID,
				ShopID:     shop.ID,
				ExternalID: good.ID,
				Model:      good.Model,
				Price:      good.Price,
				PriceRRC:   good.PriceRRC,
				Quantity:   good.Quantity,
			}
			if err := tx.Create(&info).Error; err != nil {
				return err
			}

			for name, value := range good.ParameterValues() {
				parameter := models.Parameter{Name: name}
				if err := tx.Where("name = ?", name).FirstOrCreate(&parameter).Error; err != nil {
					return err
				}
				pp := models.ProductParameter{
					ProductInfoID: info.ID,
					ParameterID:   parameter.ID,
					Value:         value,
				}
				if err := tx.Create(&pp).Error; err != nil {
					return err
				}
			}
		}

		return tx.Model(&models.Shop{}).
			Where("id = ?", shop.ID).
			Update("up_to_date", true).Error
	})
}
