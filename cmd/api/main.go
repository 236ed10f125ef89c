package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cuepack-api/internal/cache"
	"cuepack-api/internal/config"
	"cuepack-api/internal/handler"
	"cuepack-api/internal/repository"
	"cuepack-api/internal/router"
	"cuepack-api/internal/service"
	"cuepack-api/internal/state"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting CuePack API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize state repository based on config
	var stateRepo repository.StateRepository
	switch cfg.StateDB.Type {
	case "mysql":
		db, err := sql.Open("mysql", cfg.StateDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to open MySQL: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping MySQL: %v", err)
		}
		mysqlRepo, err := repository.NewMySQLStateRepository(db)
		if err != nil {
			log.Fatalf("Failed to initialize MySQL: %v", err)
		}
		stateRepo = mysqlRepo
		log.Println("MySQL state repository initialized")
	case "memory":
		stateRepo = repository.NewMemoryStateRepository()
		log.Println("In-memory state repository initialized (state is not persisted)")
	default: // sqlite
		if dir := filepath.Dir(cfg.StateDB.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
		sqliteRepo, err := repository.NewSQLiteStateRepository(cfg.StateDB.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		stateRepo = sqliteRepo
		log.Println("SQLite state repository initialized")
	}
	defer stateRepo.Close()

	// Restore the document from the state repository
	store := state.NewStore(stateRepo)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.Load(loadCtx); err != nil {
		log.Fatalf("Failed to load state: %v", err)
	}
	cancelLoad()
	log.Println("Document state restored")

	// Initialize search-result cache
	var searchCache cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
			searchCache = cache.NewMemoryCache()
		} else {
			searchCache = cache.NewRedisCache(redisClient, "")
			log.Println("Redis cache initialized")
		}
	default:
		searchCache = cache.NewMemoryCache()
	}
	defer searchCache.Close()

	// Initialize services
	catalogService := service.NewCatalogService(store, searchCache, cfg.Cache.TTL)
	listService := service.NewListService(store)
	transferService := service.NewTransferService(store)

	// Initialize handlers
	healthHandler := handler.New(cfg.App.Version)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	listHandler := handler.NewListHandler(listService)
	transferHandler := handler.NewTransferHandler(transferService)
	checklistHandler := handler.NewChecklistHandler(store)
	adminHandler := handler.NewAdminHandler(store, stateRepo, cfg.StateDB.Type)

	// Create router
	r := router.New(router.Config{
		Handler:          healthHandler,
		CatalogHandler:   catalogHandler,
		ListHandler:      listHandler,
		TransferHandler:  transferHandler,
		ChecklistHandler: checklistHandler,
		AdminHandler:     adminHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
