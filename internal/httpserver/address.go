package httpserver

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/service"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type AddressHandler struct {
	Accounts *service.AccountService
}

func (h *AddressHandler) List(c echo.Context) error {
	addrs, err := h.Accounts.Addresses(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, addrs)
}

func (h *AddressHandler) Create(c echo.Context) error {
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	if err := h.Accounts.CreateAddress(c.Request().Context(), userID(c), req); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

func (h *AddressHandler) Update(c echo.Context) error {
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	if err := h.Accounts.UpdateAddress(c.Request().Context(), userID(c), req); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

// Delete accepts {"items": "1,2,3"} and removes the caller's addresses
// with those ids. Unknown ids are skipped.
func (h *AddressHandler) Delete(c echo.Context) error {
	var req struct {
		Items string `json:"items"`
	}
	if err := c.Bind(&req); err != nil || req.Items == "" {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	var ids []uint
	for _, part := range strings.Split(req.Items, ",") {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return badRequest(c, "Неправильный формат запроса")
		}
		ids = append(ids, uint(id))
	}

	deleted, err := h.Accounts.DeleteAddresses(c.Request().Context(), userID(c), ids)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"Удалено объектов": deleted})
}
