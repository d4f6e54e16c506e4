package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"transit-map-service/internal/adapters/cache"
	"transit-map-service/internal/adapters/ors"
	"transit-map-service/internal/adapters/osrm"
	"transit-map-service/internal/adapters/repositories"
	"transit-map-service/internal/adapters/summary"
	"transit-map-service/internal/api"
	"transit-map-service/internal/config"
	"transit-map-service/internal/dashboard"
	"transit-map-service/internal/platform/db"
	"transit-map-service/internal/ports"
	"transit-map-service/internal/services"
)

// memoryDBPath keeps the address cache in process instead of on disk.
const memoryDBPath = ":memory:"

// main is the application composition root.
// It wires concrete adapters (route store, caches, ORS/OSRM, summary) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tiles, err := config.LoadTiles(cfg.TilesPath)
	if err != nil {
		log.Fatal(err)
	}

	store := repositories.NewMemoryRouteStore()
	n, err := repositories.SeedFromJSON(ctx, store, cfg.SeedPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Seeded routes count=%d path=%s", n, cfg.SeedPath)

	searchCache, closeSearch, err := openSearchCache(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeSearch()

	geometryCache, closeGeometry, err := openGeometryCache(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeGeometry()

	var (
		lookup    ports.AddressLookup
		optimizer ports.RouteOptimizer
	)
	if cfg.ORSAPIKey != "" {
		client, err := ors.NewClient(cfg.ORSAPIKey, ors.Options{
			BaseURL: cfg.ORSBaseURL,
			Country: cfg.GeocodeCountry,
		})
		if err != nil {
			log.Fatal(err)
		}
		lookup = client
		if cfg.Optimizer == "ors" {
			optimizer = client
		}
	}
	if cfg.Optimizer == "osrm" {
		optimizer = osrm.New(cfg.OSRMBaseURL, 0)
	}

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		log.Fatal(err)
	}

	registry := dashboard.NewRegistry(dashboard.Deps{
		Store: store,
		Commit: &services.CommitPipeline{
			Optimizer: optimizer,
			Cache:     geometryCache,
			Tolerance: cfg.GeometryTolerance,
		},
		Summarizer:  summarizer,
		Tiles:       tiles,
		SimInterval: cfg.SimInterval,
		Defaults: services.RouteDefaults{
			CompanyName:       cfg.CompanyName,
			AccessTokenScheme: cfg.AccessTokenScheme,
		},
	})
	defer registry.CloseAll()

	router := api.NewRouter(api.Deps{
		Store:       store,
		Registry:    registry,
		Search:      &services.AddressSearch{Lookup: lookup, Cache: searchCache},
		CORSOrigins: cfg.CORSOrigins,
	})

	// Timeouts are tuned for commits that wait on the route optimizer.
	log.Printf("Server listening addr=:%s optimizer=%s", cfg.Port, cfg.Optimizer)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

// openSearchCache picks Postgres when DATABASE_URL is set, the embedded
// SQLite file otherwise, or an in-process cache for DB_PATH=:memory:.
func openSearchCache(cfg config.Config) (ports.SearchCache, func(), error) {
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewSQLSearchCache(conn), closeDB(conn), nil
	}

	if cfg.DBPath == memoryDBPath {
		c := cache.NewMemorySearchCache(cfg.CacheTTL)
		return c, c.Close, nil
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return cache.NewSqliteSearchCache(conn), closeDB(conn), nil
}

func openGeometryCache(ctx context.Context, cfg config.Config) (ports.GeometryCache, func(), error) {
	if cfg.RedisURL == "" {
		c := cache.NewMemoryGeometryCache(cfg.CacheTTL)
		return c, c.Close, nil
	}

	client, err := cache.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisGeometryCache(client, cfg.CacheTTL), func() {
		if err := client.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}, nil
}

func newSummarizer(cfg config.Config) (ports.IncidentSummarizer, error) {
	if cfg.SummaryURL == "" {
		return summary.TemplateSummarizer{}, nil
	}
	return summary.NewHTTPSummarizer(cfg.SummaryURL, cfg.SummaryAPIKey, 0)
}

func closeDB(conn *sql.DB) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}
}
