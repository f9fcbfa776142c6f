package httpserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkozhevin/retail_orders/internal/search"
	"github.com/mkozhevin/retail_orders/internal/service"
)

type CatalogHandler struct {
	Catalog *service.CatalogService
	Index   *search.Index
}

func (h *CatalogHandler) Categories(c echo.Context) error {
	categories, err := h.Catalog.Categories(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, categories)
}

func (h *CatalogHandler) Shops(c echo.Context) error {
	shops, err := h.Catalog.Shops(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, shops)
}

func queryID(c echo.Context, name string) (uint, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// Products filters listings by the optional shop_id and category_id
// query parameters.
func (h *CatalogHandler) Products(c echo.Context) error {
	shopID, okShop := queryID(c, "shop_id")
	categoryID, okCat := queryID(c, "category_id")
	if !okShop || !okCat {
		return badRequest(c, "Неправильный формат запроса")
	}

	listings, err := h.Catalog.Listings(c.Request().Context(), shopID, categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, listings)
}

func (h *CatalogHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return badRequest(c, "Не указаны все необходимые аргументы")
	}

	from := 0
	size := 20
	if raw := c.QueryParam("from"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest(c, "Неправильный формат запроса")
		}
		from = n
	}
	if raw := c.QueryParam("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return badRequest(c, "Неправильный формат запроса")
		}
		size = n
	}

	total, docs, err := h.Index.Search(c.Request().Context(), query, from, size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(200, echo.Map{"total": total, "items": docs})
}
