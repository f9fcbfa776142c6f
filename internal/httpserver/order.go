package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/service"
)

type OrderHandler struct {
	Orders *service.OrderService
}

func (h *OrderHandler) List(c echo.Context) error {
	views, err := h.Orders.My(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, views)
}

// Place converts the basket into an order bound to one of the
// caller's addresses.
func (h *OrderHandler) Place(c echo.Context) error {
	var req struct {
		AddressID uint `json:"address_id"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}
	if req.AddressID == 0 {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	if err := h.Orders.Place(c.Request().Context(), userID(c), req.AddressID); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}
