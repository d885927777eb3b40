package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/franciscosanchezn/pizza-search-api/docs"
	"github.com/franciscosanchezn/pizza-search-api/internal/config"
	"github.com/franciscosanchezn/pizza-search-api/internal/controllers"
	"github.com/franciscosanchezn/pizza-search-api/internal/database"
	"github.com/franciscosanchezn/pizza-search-api/internal/metrics"
	"github.com/franciscosanchezn/pizza-search-api/internal/middleware"
	"github.com/franciscosanchezn/pizza-search-api/internal/search"
	"github.com/franciscosanchezn/pizza-search-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// @title Pizza Search API
// @version 1.0
// @description Pizzas stored in a search index
// @host 127.0.0.1:8080
// @BasePath /
func main() {
	// Load environment variables
	loadDotenvFile()

	// Load configuration
	configuration := loadConfig()

	// Initialize logger
	setUpLogger(configuration)

	// Initialize the document store shared by every request
	store, err := search.Open(configuration)
	checkPanicErr(err)

	appMetrics := metrics.New()
	store = search.NewInstrumentedStore(store, appMetrics)

	// Initialize services and controllers
	pizzaService := services.NewPizzaService(store)
	pizzaController := controllers.NewPizzaController(pizzaService)
	healthController := controllers.NewHealthController(pizzaService)

	// Initialize Gin router
	router := setupRouter(configuration, appMetrics)
	setupRoutes(router, pizzaController, healthController, appMetrics)
	docs.SwaggerInfo.Host = configuration.Address()

	server := &http.Server{
		Addr:              configuration.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		log.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
	}()

	// Start the server
	log.Infof("Starting server on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Server error")
	}
	<-shutdownDone

	if err := store.Close(); err != nil {
		log.WithError(err).Warn("Closing document store failed")
	}
	log.Info("Server stopped")
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and the configured level
// The level is shared with the package loggers of the store and database layers
func setUpLogger(conf *config.Config) {
	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(conf.LogLevel)
	checkPanicErr(err)
	log.SetLevel(level)
	search.SetLogLevel(level)
	database.SetLogLevel(level)

	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupRouter initializes the Gin router with the recovery, request id, logging and metrics middleware
// It returns the configured router
func setupRouter(conf *config.Config, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log.StandardLogger()),
		middleware.Metrics(m),
	)
	log.WithField("environment", conf.Environment).Debug("Router initialized")
	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, pizzaController controllers.PizzaController, healthController *controllers.HealthController, m *metrics.Metrics) {
	// Health check endpoint
	router.GET("/health", healthController.HealthCheck)

	// Pizza routes
	router.GET("/all-pizzas", pizzaController.GetAllPizzas)
	router.POST("/pizza", pizzaController.CreatePizza)

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
