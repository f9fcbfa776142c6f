package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/service"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type AccountHandler struct {
	Accounts *service.AccountService
}

func (h *AccountHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	if err := h.Accounts.RegisterBuyer(c.Request().Context(), req); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

func (h *AccountHandler) Confirm(c echo.Context) error {
	var req transport.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	if err := h.Accounts.Confirm(c.Request().Context(), req.Email, req.Token); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

func (h *AccountHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	token, err := h.Accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, echo.Map{"Token": token})
}

func (h *AccountHandler) Details(c echo.Context) error {
	user, err := h.Accounts.Details(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, transport.NewAccountView(user))
}

func (h *AccountHandler) UpdateDetails(c echo.Context) error {
	var req transport.AccountUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	if err := h.Accounts.Update(c.Request().Context(), userID(c), req); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}
