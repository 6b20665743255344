package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/online-store/store-service/internal/config"
	"github.com/online-store/store-service/internal/database"
	"github.com/online-store/store-service/internal/handlers"
	"github.com/online-store/store-service/internal/repository"
	"github.com/online-store/store-service/internal/repository/memory"
	"github.com/online-store/store-service/internal/service"
	sharedHTTP "github.com/online-store/store-service/shared/http"
	"github.com/online-store/store-service/shared/messaging"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Println("Starting Store Service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	store, err := initStorage(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}
	defer store.close()

	publisher, closePublisher := initPublisher(cfg)
	defer closePublisher()

	categoryService := service.NewCategoryService(store.tx, store.categories, store.products, store.reservations, store.sales, publisher)
	productService := service.NewProductService(store.tx, store.products, store.categories, store.discounts, store.reservations, store.sales)
	discountService := service.NewDiscountService(store.tx, store.discounts, store.products, store.sales)
	reservationService := service.NewReservationService(store.tx, store.products, store.reservations, publisher)
	saleService := service.NewSaleService(store.tx, store.products, store.sales, publisher)
	reportService := service.NewReportService(store.reports)

	app := setupFiberApp()
	handlers.Handlers{
		Health:       handlers.NewHealthHandler(cfg.ServiceName, store.ping),
		Categories:   handlers.NewCategoryHandler(categoryService),
		Products:     handlers.NewProductHandler(productService),
		Discounts:    handlers.NewDiscountHandler(discountService),
		Reservations: handlers.NewReservationHandler(reservationService),
		Sales:        handlers.NewSaleHandler(saleService, reportService),
	}.SetupRoutes(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Store Service running on: http://localhost:%s", cfg.Port)
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down Store Service...")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
	log.Println("Store Service stopped")
}

type storage struct {
	tx           service.Transactor
	categories   service.CategoryRepository
	products     service.ProductRepository
	discounts    service.DiscountRepository
	reservations service.ReservationRepository
	sales        service.SaleRepository
	reports      service.ReportRepository
	ping         func(ctx context.Context) error
	close        func()
}

func initStorage(cfg config.Config) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Println("Using in-memory store; data is lost on restart")
		store := memory.NewStore()
		return &storage{
			tx:           memory.NewTransactor(store),
			categories:   memory.NewCategoryRepository(store),
			products:     memory.NewProductRepository(store),
			discounts:    memory.NewDiscountRepository(store),
			reservations: memory.NewReservationRepository(store),
			sales:        memory.NewSaleRepository(store),
			reports:      memory.NewReportRepository(store),
			close:        func() {},
		}, nil
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		database.Close(db)
		return nil, err
	}

	return &storage{
		tx:           database.NewTransactor(db),
		categories:   repository.NewCategoryRepository(db),
		products:     repository.NewProductRepository(db),
		discounts:    repository.NewDiscountRepository(db),
		reservations: repository.NewReservationRepository(db),
		sales:        repository.NewSaleRepository(db),
		reports:      repository.NewReportRepository(db),
		ping:         sqlDB.PingContext,
		close: func() {
			if err := database.Close(db); err != nil {
				log.Printf("Database close error: %v", err)
			}
		},
	}, nil
}

// initPublisher connects to RabbitMQ when enabled. Without a broker the
// service keeps running and drops events.
func initPublisher(cfg config.Config) (service.EventPublisher, func()) {
	if !cfg.RabbitMQ.Enabled {
		log.Println("RabbitMQ disabled; inventory events are not published")
		return messaging.NoopPublisher{}, func() {}
	}

	rabbitConfig := cfg.RabbitMQ
	client := messaging.NewRabbitMQClient(&rabbitConfig)
	if err := client.Connect(); err != nil {
		log.Printf("RabbitMQ connection error, events disabled: %v", err)
		return messaging.NoopPublisher{}, func() {}
	}

	publisher := messaging.NewAsyncPublisher(
		messaging.NewPublisher(client, rabbitConfig.RetryCount),
		rabbitConfig.PublishBuffer,
	)
	return publisher, func() {
		publisher.Close()
		client.Close()
	}
}

func setupFiberApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Store Service v1.0",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	return app
}

// errorHandler handles errors that escape the handlers, such as panics
// turned into errors by the recover middleware.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return sharedHTTP.ErrorResponse(c, fiberErr.Code, "HTTP_ERROR", fiberErr.Message, nil)
	}

	log.Printf("Error: %v", err)
	return sharedHTTP.InternalServerErrorResponse(c, "An internal server error occurred.")
}
