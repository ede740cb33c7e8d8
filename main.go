package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/touristapp/booking-backend/config"
	"github.com/touristapp/booking-backend/internal/handler"
	"github.com/touristapp/booking-backend/internal/middleware"
	"github.com/touristapp/booking-backend/internal/repository"
	"github.com/touristapp/booking-backend/internal/service"
	"github.com/touristapp/booking-backend/pkg/auth"
	"github.com/touristapp/booking-backend/pkg/database"
	"github.com/touristapp/booking-backend/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	auth.Configure(cfg.JWTSecret)

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	spotRatingRepo := repository.NewSpotRatingRepository(db)

	// Services
	userSvc := service.NewUserService(userRepo, time.Duration(cfg.JWTExpireMin)*time.Minute)
	catalogSvc := service.NewCatalogService(packageRepo, userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, packageRepo, publisher)
	ratingSvc := service.NewRatingService(ratingRepo, bookingRepo, packageRepo, publisher)
	spotSvc := service.NewSpotService(spotRepo, spotRatingRepo, publisher)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "booking-backend"})
	})

	handler.NewAuthHandler(userSvc).RegisterRoutes(e)
	handler.NewPackageHandler(catalogSvc, ratingSvc).RegisterRoutes(e)
	handler.NewBookingHandler(bookingSvc, catalogSvc).RegisterRoutes(e)
	handler.NewRatingHandler(ratingSvc).RegisterRoutes(e)
	handler.NewSpotHandler(spotSvc).RegisterRoutes(e)

	log.Printf("Booking backend starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
