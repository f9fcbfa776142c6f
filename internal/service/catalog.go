package service

import (
	"context"

	"github.com/mkozhevin/retail_orders/internal/models"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.Categories(ctx)
}

func (s *CatalogService) Shops(ctx context.Context) ([]models.Shop, error) {
	return s.Repo.ActiveShops(ctx)
}

// Listings searches the sellable listings of active shops, optionally
// narrowed to one shop and/or one category.
func (s *CatalogService) Listings(ctx context.Context, shopID, categoryID uint) ([]transport.ListingView, error) {
	infos, err := s.Repo.SearchListings(ctx, shopID, categoryID)
	if err != nil {
		return nil, err
	}

	views := make([]transport.ListingView, 0, len(infos))
	for i := range infos {
		views = append(views, transport.NewListingView(&infos[i]))
	}
	return views, nil
}
