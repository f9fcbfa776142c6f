package models

import (
	"time"

	"github.com/mkozhevin/retail_orders/internal/hash"
)

const (
	UserTypeBuyer = "buyer"
	UserTypeShop  = "shop"
)

const (
	StateBasket    = "basket"
	StateNew       = "new"
	StateConfirmed = "confirmed"
	StateAssembled = "assembled"
	StateSent      = "sent"
	StateDelivered = "delivered"
	StateCanceled  = "canceled"
)

// StateLabels maps an order state code to its customer-facing label.
var StateLabels = map[string]string{
	StateBasket:    "Статус корзины",
	StateNew:       "Новый",
	StateConfirmed: "Подтвержден",
	StateAssembled: "Собран",
	StateSent:      "Отправлен",
	StateDelivered: "Доставлен",
	StateCanceled:  "Отменен",
}

func ValidState(state string) bool {
	_, ok := StateLabels[state]
	return ok
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Patronymic   string `json:"patronymic"`
	Company      string `json:"company"`
	Position     string `json:"position"`
	Phone        string `json:"phone"`
	Type         string `gorm:"not null;default:buyer"   json:"type"`
	Active       bool   `gorm:"default:false"            json:"-"`

	Addresses []Address `json:"address,omitempty"`
}

func (u *User) SetPassword(password string) error {
	h, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

type Address struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	UserID    uint   `gorm:"index;not null" json:"-"`
	City      string `gorm:"not null"       json:"city"`
	Street    string `gorm:"not null"       json:"street"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
}

func (Address) TableName() string {
	return "addresses"
}

type Shop struct {
	ID       uint   `gorm:"primaryKey"           json:"id"`
	Name     string `gorm:"not null;index"       json:"name"`
	UserID   uint   `gorm:"uniqueIndex;not null" json:"-"`
	URL      string `json:"-"`
	State    bool   `gorm:"default:true"         json:"state"`
	UpToDate bool   `gorm:"default:false"        json:"-"`

	Categories []Category `gorm:"many2many:shop_categories" json:"-"`
}

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null"   json:"name"`

	Shops []Shop `gorm:"many2many:shop_categories" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}

type Product struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"                       json:"-"`
	Name       string `gorm:"uniqueIndex:idx_product_name_category;not null" json:"name"`
	CategoryID uint   `gorm:"uniqueIndex:idx_product_name_category;not null" json:"-"`

	Category Category `json:"-"`
}

// ProductInfo is the sellable unit: one shop's listing of a product.
// A price-list import fully replaces the shop's rows.
type ProductInfo struct {
	ID         uint   `gorm:"primaryKey"                                           json:"id"`
	ProductID  uint   `gorm:"uniqueIndex:idx_product_shop_external;not null"       json:"-"`
	ShopID     uint   `gorm:"uniqueIndex:idx_product_shop_external;index;not null" json:"-"`
	ExternalID uint   `gorm:"uniqueIndex:idx_product_shop_external;not null"       json:"external_id"`
	Model      string `json:"model"`
	Price      uint   `gorm:"not null" json:"price"`
	PriceRRC   uint   `gorm:"not null" json:"price_rrc"`
	Quantity   uint   `gorm:"not null" json:"quantity"`

	Product    Product            `json:"-"`
	Shop       Shop               `json:"-"`
	Parameters []ProductParameter `json:"-"`
}

func (ProductInfo) TableName() string {
	return "product_infos"
}

type Parameter struct {
	ID   uint   `gorm:"primaryKey"      json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

type ProductParameter struct {
	ID            uint   `gorm:"primaryKey"                              json:"-"`
	ProductInfoID uint   `gorm:"uniqueIndex:idx_info_parameter;not null" json:"-"`
	ParameterID   uint   `gorm:"uniqueIndex:idx_info_parameter;not null" json:"-"`
	Value         string `gorm:"not null"                                json:"value"`

	Parameter Parameter `json:"-"`
}

// Order doubles as the basket while State == StateBasket. The partial
// unique index keeps at most one live basket per user.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;index:idx_user_basket,unique,where:state = 'basket';not null" json:"-"`
	State     string    `gorm:"not null;default:basket;index" json:"state"`
	AddressID *uint     `json:"-"`
	CreatedAt time.Time `json:"dt"`

	Address *Address    `json:"address,omitempty"`
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
	User    User        `json:"-"`
}

type OrderItem struct {
	ID            uint `gorm:"primaryKey"                                  json:"id"`
	OrderID       uint `gorm:"uniqueIndex:idx_order_product_info;not null" json:"-"`
	ProductInfoID uint `gorm:"uniqueIndex:idx_order_product_info;not null" json:"product_info"`
	Quantity      uint `gorm:"not null;check:quantity>0"                   json:"quantity"`

	ProductInfo ProductInfo `json:"-"`
}

// Delivery is one shipping-cost tier of a shop: Cost applies to any
// per-shop order sum of at least MinSum.
type Delivery struct {
	ID     uint `gorm:"primaryKey"                            json:"id"`
	ShopID uint `gorm:"uniqueIndex:idx_shop_min_sum;not null" json:"-"`
	MinSum uint `gorm:"uniqueIndex:idx_shop_min_sum;not null" json:"min_sum"`
	Cost   uint `gorm:"not null"                              json:"cost"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

type ConfirmEmailToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Key       string `gorm:"unique;not null"`
	CreatedAt time.Time
}

// All is the AutoMigrate set, ordered so FK targets come first.
func All() []any {
	return []any{
		&User{}, &Address{}, &ConfirmEmailToken{},
		&Shop{}, &Category{}, &Product{}, &ProductInfo{},
		&Parameter{}, &ProductParameter{},
		&Order{}, &OrderItem{}, &Delivery{},
	}
}
