package events

const (
	TopicUserEvents  = "user_events"
	TopicOrderEvents = "order_events"
	TopicPriceEvents = "price_events"
)

const (
	TypeUserRegistered   = "user_registered"
	TypeOrderStateChange = "order_state_changed"
	TypeNewOrderAdmin    = "new_order_admin"
	TypePriceListUpdated = "price_list_updated"
)

type UserRegistered struct {
	Type   string `json:"type"`
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type OrderStateChanged struct {
	Type    string `json:"type"`
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	State   string `json:"state"`
}

// NewOrderAdmin is the administrator alert fired alongside the buyer
// notification when a basket becomes an order.
type NewOrderAdmin struct {
	Type     string `json:"type"`
	OrderID  uint   `json:"order_id"`
	UserID   uint   `json:"user_id"`
	UserName string `json:"user_name"`
}

type PriceListUpdated struct {
	Type     string `json:"type"`
	ShopName string `json:"shop_name"`
	Email    string `json:"email"`
}
