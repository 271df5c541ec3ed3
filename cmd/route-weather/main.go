package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/routewx/route-weather/internal/api/http"
	"github.com/routewx/route-weather/internal/config"
	"github.com/routewx/route-weather/internal/querylog"
	"github.com/routewx/route-weather/internal/routing"
	"github.com/routewx/route-weather/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	directions := routing.NewGoogleClient(httpClient, cfg.GoogleMapsKey)
	if !directions.Configured() {
		log.Println("WARN: GOOGLE_MAPS_KEY not set; route endpoint will answer 503")
	}

	openWeather := weather.NewOpenWeatherClient(httpClient, cfg.WeatherAPIKey)
	if !openWeather.Configured() {
		log.Println("WARN: WEATHER_API_KEY not set; all observations will be degraded")
	}
	enricher := weather.NewEnricher(weather.NewRateLimited(openWeather, cfg.WeatherRPS, cfg.WeatherBurst))

	// Query log persistence is best-effort from the start: an unreachable
	// MongoDB disables logging but never blocks startup.
	recorder := querylog.Disabled()
	mongoConnected := false

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.MongoTimeout)
	mongoClient, err := querylog.Connect(connectCtx, cfg.MongoURI)
	cancelConnect()
	if err != nil {
		log.Printf("WARN: mongodb unavailable, query logging disabled: %v", err)
	} else {
		log.Println("mongodb connection established")
		mongoConnected = true
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("error disconnecting mongodb: %v", err)
			}
		}()

		mongoRecorder := querylog.NewMongoRecorder(mongoClient, cfg.MongoTimeout)
		recorder = mongoRecorder

		sweeper := querylog.NewSweeper(mongoRecorder, cfg.QuerylogMaxAge, cfg.QuerylogSweepInterval)
		if err := sweeper.Start(); err != nil {
			log.Printf("WARN: failed to start querylog sweeper: %v", err)
		} else {
			defer sweeper.Stop()
		}
	}

	app := httpapi.NewApp(httpapi.Deps{
		Directions: directions,
		Enricher:   enricher,
		Recorder:   recorder,

		GoogleMapsConfigured: directions.Configured(),
		WeatherAPIConfigured: openWeather.Configured(),
		MongoConnected:       mongoConnected,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
