package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/service"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type BasketHandler struct {
	Basket *service.BasketService
}

func (h *BasketHandler) Get(c echo.Context) error {
	view, err := h.Basket.Get(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, view)
}

func (h *BasketHandler) Add(c echo.Context) error {
	var req struct {
		Items []transport.BasketItemRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil || len(req.Items) == 0 {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	created, err := h.Basket.Add(c.Request().Context(), userID(c), req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"Создано объектов": created})
}

func (h *BasketHandler) Update(c echo.Context) error {
	var req struct {
		Items []transport.BasketUpdateItem `json:"items"`
	}
	if err := c.Bind(&req); err != nil || len(req.Items) == 0 {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	updated, deleted, err := h.Basket.Update(c.Request().Context(), userID(c), req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"Обновлено объектов": updated, "Удалено объектов": deleted})
}

func (h *BasketHandler) Delete(c echo.Context) error {
	var req struct {
		Items []uint `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неверный формат запроса")
	}
	if len(req.Items) == 0 {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	deleted, err := h.Basket.Delete(c.Request().Context(), userID(c), req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"Удалено объектов": deleted})
}
