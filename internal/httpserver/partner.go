package httpserver

import (
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/service"
	"github.com/mkozhevin/retail_orders/internal/transport"
)

type PartnerHandler struct {
	Accounts *service.AccountService
	Partner  *service.PartnerService
}

func (h *PartnerHandler) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Неправильно указаны аргументы")
	}

	if err := h.Accounts.RegisterPartner(c.Request().Context(), req); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

// Update ingests a price list, either fetched from the url field or
// uploaded as a multipart file.
func (h *PartnerHandler) Update(c echo.Context) error {
	rawURL := c.FormValue("url")

	var data []byte
	if rawURL == "" {
		if ct := c.Request().Header.Get(echo.HeaderContentType); ct == echo.MIMEApplicationJSON {
			var req struct {
				URL string `json:"url"`
			}
			if err := c.Bind(&req); err != nil {
				return badRequest(c, "Неправильно указаны аргументы")
			}
			rawURL = req.URL
		}
	}
	if rawURL == "" {
		fh, err := c.FormFile("file")
		if err != nil {
			return badRequest(c, "Не указаны все необходимые аргументы")
		}
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "Неправильный формат запроса")
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			return badRequest(c, "Неправильный формат запроса")
		}
	}

	if err := h.Partner.UpdatePriceList(c.Request().Context(), userID(c), rawURL, data); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

func (h *PartnerHandler) State(c echo.Context) error {
	shop, err := h.Partner.Shop(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, shop)
}

func (h *PartnerHandler) SetState(c echo.Context) error {
	var req struct {
		State string `json:"state"`
	}
	if err := c.Bind(&req); err != nil || req.State == "" {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	if err := h.Partner.SetState(c.Request().Context(), userID(c), req.State); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

func (h *PartnerHandler) Orders(c echo.Context) error {
	views, err := h.Partner.Orders(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, views)
}

func (h *PartnerHandler) SetOrderState(c echo.Context) error {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "Неправильный формат запроса")
	}

	var req struct {
		State string `json:"state"`
	}
	if err := c.Bind(&req); err != nil || req.State == "" {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	if err := h.Partner.SetOrderState(c.Request().Context(), userID(c), uint(orderID), req.State); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}

func (h *PartnerHandler) Deliveries(c echo.Context) error {
	tiers, err := h.Partner.Deliveries(c.Request().Context(), userID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, tiers)
}

func (h *PartnerHandler) SetDeliveries(c echo.Context) error {
	var req struct {
		Tiers []transport.DeliveryTierRequest `json:"delivery"`
	}
	if err := c.Bind(&req); err != nil || len(req.Tiers) == 0 {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	if err := h.Partner.SetDeliveries(c.Request().Context(), userID(c), req.Tiers); err != nil {
		return respondError(c, err)
	}
	return ok(c, nil)
}
