package repo

import (
	"context"

	"github.com/mkozhevin/retail_orders/internal/models"
)

func (r *GormRepo) Addresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var addresses []models.Address
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *GormRepo) CountAddresses(ctx context.Context, userID uint) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Address{}).Where("user_id = ?", userID).Count(&total).Error
	return total, err
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) AddressByID(ctx context.Context, id, userID uint) (*models.Address, error) {
	var address models.Address
	err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *GormRepo) DeleteAddresses(ctx context.Context, userID uint, ids []uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Address{})
	return res.RowsAffected, res.Error
}
