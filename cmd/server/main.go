package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"tripway/internal/config"
	"tripway/internal/handlers"
	"tripway/internal/middleware"
	"tripway/internal/repositories/rest"
	"tripway/internal/services"
	"tripway/pkg/cache"
	"tripway/pkg/geocode"
	"tripway/pkg/logger"
	"tripway/pkg/poi"
	"tripway/pkg/routing"
	"tripway/pkg/weather"
	"tripway/pkg/websocket"
	"tripway/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	geocoder, err := buildGeocoder(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize geocoder: %v", err)
	}

	router := routing.NewORSProvider(cfg.Routing.APIKey, cfg.Routing.BaseURL)
	if cfg.Routing.APIKey == "" {
		appLogger.Warn("No routing API key configured, routes will be straight-line fallbacks")
	}

	weatherProvider := weather.NewOpenWeatherProvider(
		cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.Units, cfg.Weather.Language)
	poiProvider := poi.NewOverpassProvider(cfg.POI.BaseURL)

	tripGateway, err := rest.NewTripGateway(cfg.Trips.BaseURL)
	if err != nil {
		appLogger.Fatalf("Failed to initialize trip gateway: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	plannerFactory := func() services.PlannerService {
		return services.NewPlannerService(geocoder, router, weatherProvider, poiProvider, tripGateway, appLogger)
	}

	plannerHandler := handlers.NewPlannerHandler(plannerFactory, hub)
	plannerHandler.SetDefaultPOIRadius(cfg.POI.DefaultRadiusMeters)
	tripHandler := handlers.NewTripHandler(tripGateway)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.LoggingMiddleware(appLogger))

	v1 := engine.Group("/api/v1")
	{
		routes.SetupPlannerRoutes(v1, plannerHandler, tripHandler)
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, engine); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}

// buildGeocoder selects the configured geocoding provider and wraps it
// with a Redis read-through cache when one is available.
func buildGeocoder(cfg *config.Config, appLogger *logger.Logger) (geocode.Provider, error) {
	var provider geocode.Provider
	switch cfg.Geocoding.Provider {
	case "google":
		googleProvider, err := geocode.NewGoogleProvider(cfg.Geocoding.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		provider = googleProvider
	default:
		provider = geocode.NewPhotonProvider(cfg.Geocoding.PhotonBaseURL)
	}

	if !cfg.Redis.Enabled {
		return provider, nil
	}

	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		appLogger.Warnf("Redis unavailable, geocoding cache disabled: %v", err)
		return provider, nil
	}
	return geocode.NewCachedProvider(provider, redisCache, cfg.Geocoding.CacheTTL), nil
}
