package transport

import (
	"time"

	"github.com/mkozhevin/retail_orders/internal/models"
)

// Response envelope: every mutating endpoint answers
// {"Status": true|false} with Errors on failure.

type RegisterRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Patronymic string `json:"patronymic"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Company    string `json:"company"`
	Position   string `json:"position"`
	Phone      string `json:"phone"`
}

type ConfirmRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AccountUpdateRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Patronymic *string `json:"patronymic"`
	Password   *string `json:"password"`
	Company    *string `json:"company"`
	Position   *string `json:"position"`
	Phone      *string `json:"phone"`
}

type AddressRequest struct {
	ID        uint   `json:"id"`
	City      string `json:"city"`
	Street    string `json:"street"`
	House     string `json:"house"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
}

type BasketItemRequest struct {
	ProductInfo uint `json:"product_info"`
	Quantity    uint `json:"quantity"`
}

type BasketUpdateItem struct {
	ID       uint `json:"id"`
	Quantity uint `json:"quantity"`
}

type DeliveryTierRequest struct {
	MinSum uint `json:"min_sum"`
	Cost   uint `json:"cost"`
}

// Read shapes.

type AccountView struct {
	ID         uint             `json:"id"`
	FirstName  string           `json:"first_name"`
	LastName   string           `json:"last_name"`
	Patronymic string           `json:"patronymic"`
	Email      string           `json:"email"`
	Company    string           `json:"company"`
	Position   string           `json:"position"`
	Phone      string           `json:"phone"`
	Type       string           `json:"type"`
	Addresses  []models.Address `json:"addresses"`
}

func NewAccountView(user *models.User) AccountView {
	return AccountView{
		ID:         user.ID,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Patronymic: user.Patronymic,
		Email:      user.Email,
		Company:    user.Company,
		Position:   user.Position,
		Phone:      user.Phone,
		Type:       user.Type,
		Addresses:  user.Addresses,
	}
}

type ProductView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type ParameterView struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

type ListingView struct {
	ID         uint            `json:"id"`
	Model      string          `json:"model"`
	ExternalID uint            `json:"external_id"`
	Product    ProductView     `json:"product"`
	Shop       models.Shop     `json:"shop"`
	Quantity   uint            `json:"quantity"`
	Price      uint            `json:"price"`
	PriceRRC   uint            `json:"price_rrc"`
	Parameters []ParameterView `json:"product_parameters"`
}

type OrderItemView struct {
	ID          uint        `json:"id"`
	ProductInfo ListingView `json:"product_info"`
	Quantity    uint        `json:"quantity"`
}

type DeliveryCostView struct {
	Shop     string `json:"shop"`
	Subtotal uint   `json:"sum"`
	Cost     *uint  `json:"cost"` // null when no tier qualifies
}

type OrderView struct {
	ID       uint               `json:"id"`
	State    string             `json:"state"`
	Dt       time.Time          `json:"dt"`
	TotalSum uint               `json:"total_sum"`
	Address  *models.Address    `json:"address"`
	Items    []OrderItemView    `json:"ordered_items"`
	Delivery []DeliveryCostView `json:"delivery,omitempty"`
}

func NewListingView(info *models.ProductInfo) ListingView {
	view := ListingView{
		ID:         info.ID,
		Model:      info.Model,
		ExternalID: info.ExternalID,
		Product: ProductView{
			Name:     info.Product.Name,
			Category: info.Product.Category.Name,
		},
		Shop:     info.Shop,
		Quantity: info.Quantity,
		Price:    info.Price,
		PriceRRC: info.PriceRRC,
	}
	view.Parameters = make([]ParameterView, 0, len(info.Parameters))
	for _, p := range info.Parameters {
		view.Parameters = append(view.Parameters, ParameterView{
			Parameter: p.Parameter.Name,
			Value:     p.Value,
		})
	}
	return view
}

// NewOrderView computes the running total at read time; it is never
// stored on the order.
func NewOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:      order.ID,
		State:   order.State,
		Dt:      order.CreatedAt,
		Address: order.Address,
		Items:   make([]OrderItemView, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			ID:          item.ID,
			ProductInfo: NewListingView(&item.ProductInfo),
			Quantity:    item.Quantity,
		})
		view.TotalSum += item.Quantity * item.ProductInfo.Price
	}
	return view
}
