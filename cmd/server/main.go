package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mkozhevin/retail_orders/internal/config"
	"github.com/mkozhevin/retail_orders/internal/events"
	"github.com/mkozhevin/retail_orders/internal/feed"
	"github.com/mkozhevin/retail_orders/internal/httpserver"
	"github.com/mkozhevin/retail_orders/internal/logging"
	"github.com/mkozhevin/retail_orders/internal/notify"
	"github.com/mkozhevin/retail_orders/internal/repo"
	"github.com/mkozhevin/retail_orders/internal/search"
	"github.com/mkozhevin/retail_orders/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := configuration.InitDB()
	if err != nil {
		log.Fatalf("Ошибка инициализации БД: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	brokers := []string{configuration.KAFKA_ADDRESS}

	prod := events.NewProducer(brokers)

	index, err := search.NewIndex(
		configuration.ES_URL,
		configuration.ES_USER,
		configuration.ES_PASSWORD,
		configuration.ES_INDEX,
	)
	if err != nil {
		log.Fatal(err)
	}

	r := &repo.GormRepo{DB: db}

	accounts := &service.AccountService{Repo: r, JWTSecret: jwtSecret, Events: prod}
	catalog := &service.CatalogService{Repo: r}
	basket := &service.BasketService{Repo: r}
	orders := &service.OrderService{Repo: r, Events: prod}
	partner := &service.PartnerService{Repo: r, Fetcher: feed.NewFetcher(), Index: index, Events: prod}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := &notify.Worker{
		Brokers: brokers,
		GroupID: "notifications",
		Sender: notify.NewSMTPSender(
			configuration.SMTP_HOST,
			configuration.SMTP_PORT,
			configuration.SMTP_USER,
			configuration.SMTP_PASSWORD,
			configuration.EMAIL_FROM,
		),
		AdminEmail: configuration.ADMIN_EMAIL,
		Log:        logger,
	}
	go worker.Run(workerCtx)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Account:   &httpserver.AccountHandler{Accounts: accounts},
		Address:   &httpserver.AddressHandler{Accounts: accounts},
		Catalog:   &httpserver.CatalogHandler{Catalog: catalog, Index: index},
		Basket:    &httpserver.BasketHandler{Basket: basket},
		Order:     &httpserver.OrderHandler{Orders: orders},
		Partner:   &httpserver.PartnerHandler{Accounts: accounts, Partner: partner},
		JWTSecret: jwtSecret,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.SERVER_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	stopWorker()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
