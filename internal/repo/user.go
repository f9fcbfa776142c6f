package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/models"
)

var ErrUserAlreadyExists = errors.New("user already exists")

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	tx := r.DB.WithContext(ctx).Where("email = ?", u.Email).FirstOrCreate(u)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrUserAlreadyExists
	}
	return nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Addresses").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

// GetOrCreateConfirmToken reuses an outstanding token so a repeated
// registration email carries the same key.
func (r *GormRepo) GetOrCreateConfirmToken(ctx context.Context, userID uint) (*models.ConfirmEmailToken, error) {
	token := models.ConfirmEmailToken{UserID: userID}
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(models.ConfirmEmailToken{Key: uuid.NewString()}).
		FirstOrCreate(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// ConfirmEmail activates the user behind a (email, key) pair and burns
// the token. A wrong pair returns gorm.ErrRecordNotFound.
func (r *GormRepo) ConfirmEmail(ctx context.Context, email, key string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var token models.ConfirmEmailToken
		err := tx.
			Joins("JOIN users ON users.id = confirm_email_tokens.user_id").
			Where("users.email = ? AND confirm_email_tokens.key = ?", email, key).
			First(&token).Error
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).Update("active", true).Error; err != nil {
			return err
		}
		return tx.Delete(&token).Error
	})
}
