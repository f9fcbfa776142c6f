package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mkozhevin/retail_orders/internal/models"
)

var (
	ErrDuplicateItem = errors.New("duplicate basket item")
	ErrNotFound      = gorm.ErrRecordNotFound
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
