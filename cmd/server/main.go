package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/swifttransit/bus-booking-backend/internal/config"
	"github.com/swifttransit/bus-booking-backend/internal/database"
	"github.com/swifttransit/bus-booking-backend/internal/handlers"
	"github.com/swifttransit/bus-booking-backend/internal/middleware"
	"github.com/swifttransit/bus-booking-backend/internal/services"
	"github.com/swifttransit/bus-booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SwiftTransit Bus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	stationRepo := database.NewStationRepository(db)
	routeRepo := database.NewRouteRepository(db)
	busTypeRepo := database.NewBusTypeRepository(db)
	busRepo := database.NewBusRepository(db)
	seatRepo := database.NewSeatRepository(db)
	tripRepo := database.NewTripRepository(db)
	methodRepo := database.NewPaymentMethodRepository(db)
	bookingRepo := database.NewBookingRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	layoutService := services.NewSeatLayoutService(busRepo, seatRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, tripRepo, seatRepo, methodRepo, logger, cfg.Booking.HoldWindow)
	queryService := services.NewBookingQueryService(bookingRepo, tripRepo, routeRepo, logger)
	ticketService := services.NewTicketService(queryService, logger)
	expirationService := services.NewExpirationService(bookingRepo, logger)

	// Background sweep for abandoned holds; lazy reclamation covers the
	// booking paths either way
	if cfg.Booking.SweepInterval > 0 {
		sweepSpec := fmt.Sprintf("@every %s", cfg.Booking.SweepInterval)
		cronService := services.NewCronService(expirationService, logger, sweepSpec)
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
		defer cronService.Stop()
	}

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, queryService, ticketService, logger)
	layoutHandler := handlers.NewSeatLayoutHandler(layoutService)
	catalogHandler := handlers.NewCatalogHandler(stationRepo, routeRepo, busTypeRepo, busRepo, tripRepo)
	methodHandler := handlers.NewPaymentMethodHandler(methodRepo)

	// Set up router
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": version})
	})

	v1 := router.Group("/api/v1")
	{
		// Public catalog reads
		v1.GET("/stations", catalogHandler.ListStations)
		v1.GET("/routes", catalogHandler.ListRoutes)
		v1.GET("/bus-types", catalogHandler.ListBusTypes)
		v1.GET("/buses", catalogHandler.ListBuses)
		v1.GET("/buses/:id", catalogHandler.GetBus)
		v1.GET("/buses/:id/seats", layoutHandler.GetLayout)
		v1.GET("/trips", catalogHandler.ListTrips)
		v1.GET("/trips/:id", catalogHandler.GetTrip)
		v1.GET("/trips/:id/seats/held", bookingHandler.GetTripSeats)

		// Booking lifecycle; optional auth so guests and users share routes
		v1.POST("/bookings", middleware.OptionalAuthMiddleware(jwtService), bookingHandler.CreateBooking)
		v1.POST("/bookings/confirm", bookingHandler.ConfirmBooking)
		v1.POST("/bookings/cancel", bookingHandler.CancelBooking)
		v1.GET("/bookings/lookup/:code", bookingHandler.LookUpBooking)
		v1.GET("/bookings/lookup/:code/ticket", bookingHandler.DownloadETicket)

		// Authenticated
		authed := v1.Group("", middleware.AuthMiddleware(jwtService))
		{
			authed.GET("/bookings", bookingHandler.SearchBookings)
			authed.POST("/payment-methods", methodHandler.CreatePaymentMethod)
			authed.GET("/payment-methods", methodHandler.ListPaymentMethods)
			authed.DELETE("/payment-methods/:id", methodHandler.DeletePaymentMethod)
		}

		// Fleet administration
		admin := v1.Group("", middleware.AuthMiddleware(jwtService), middleware.RequireRole("admin"))
		{
			admin.POST("/stations", catalogHandler.CreateStation)
			admin.PUT("/stations/:id", catalogHandler.RenameStation)
			admin.DELETE("/stations/:id", catalogHandler.DeleteStation)
			admin.POST("/routes", catalogHandler.CreateRoute)
			admin.DELETE("/routes/:id", catalogHandler.DeleteRoute)
			admin.POST("/bus-types", catalogHandler.CreateBusType)
			admin.POST("/buses", catalogHandler.CreateBus)
			admin.POST("/buses/:id/seats", layoutHandler.AddSeats)
			admin.POST("/trips", catalogHandler.CreateTrip)
			admin.DELETE("/trips/:id", catalogHandler.DeleteTrip)
		}
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server exited")
}
