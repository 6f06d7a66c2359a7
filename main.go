// File: garagio/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garagio/config"
	"garagio/handlers"
	"garagio/middleware"
	"garagio/remote"
	"garagio/routes"
	"garagio/services/booking"
	"garagio/services/catalog"
	"garagio/services/filter"
	"garagio/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitSessionCache()
	utils.InitCatalogCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// Remote collaborators.
	catalogClient := remote.NewHTTPCatalogClient()
	identityClient := remote.NewHTTPIdentityClient()
	reservationClient := remote.NewHTTPReservationClient()
	geocodeClient := remote.NewHTTPGeocodeClient()

	// Services.
	catalogService := catalog.NewCatalogService(
		catalogClient,
		catalog.NewResultCache(),
		logger,
		filter.CascadePolicy{AutoSelectParent: false},
	)

	bookingService := booking.NewBookingSessionService(
		reservationClient,
		identityClient,
		geocodeClient,
		booking.NewStripeResolver(logger),
		booking.NewRedisSessionStore(),
		logger,
	)

	catalogHandler := handlers.NewCatalogHandler(catalogService, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)

	routes.RegisterRoutes(router, catalogHandler, bookingHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
