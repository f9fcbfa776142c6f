package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	Account   *AccountHandler
	Address   *AddressHandler
	Catalog   *CatalogHandler
	Basket    *BasketHandler
	Order     *OrderHandler
	Partner   *PartnerHandler
	JWTSecret []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := &AuthMiddleware{JWTSecret: d.JWTSecret}

	api := e.Group("/api/v1")

	api.POST("/user/register", d.Account.Register)
	api.POST("/user/register/confirm", d.Account.Confirm)
	api.POST("/user/login", d.Account.Login)

	api.GET("/categories", d.Catalog.Categories)
	api.GET("/shops", d.Catalog.Shops)
	api.GET("/products", d.Catalog.Products)
	api.GET("/products/search", d.Catalog.Search)

	private := api.Group("", authMw.RequireAuth)
	private.GET("/user/details", d.Account.Details)
	private.POST("/user/details", d.Account.UpdateDetails)
	private.GET("/user/contact", d.Address.List)
	private.POST("/user/contact", d.Address.Create)
	private.PUT("/user/contact", d.Address.Update)
	private.DELETE("/user/contact", d.Address.Delete)

	private.GET("/basket", d.Basket.Get)
	private.POST("/basket", d.Basket.Add)
	private.PUT("/basket", d.Basket.Update)
	private.DELETE("/basket", d.Basket.Delete)

	private.GET("/order", d.Order.List)
	private.POST("/order", d.Order.Place)

	partner := api.Group("/partner")
	partner.POST("/register", d.Partner.Register)

	shopOnly := api.Group("/partner", authMw.RequireShop)
	shopOnly.POST("/update", d.Partner.Update)
	shopOnly.GET("/state", d.Partner.State)
	shopOnly.POST("/state", d.Partner.SetState)
	shopOnly.GET("/orders", d.Partner.Orders)
	shopOnly.PUT("/orders/:id", d.Partner.SetOrderState)
	shopOnly.GET("/delivery", d.Partner.Deliveries)
	shopOnly.POST("/delivery", d.Partner.SetDeliveries)
}
