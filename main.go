package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"building-backend/config"
	"building-backend/controllers"
	"building-backend/routes"
	"building-backend/services"
	"building-backend/utils"
)

func main() {
	// Load .env (optional)
	dotenvErr := godotenv.Load()

	utils.InitLogger()
	log := utils.Logger
	if dotenvErr != nil {
		log.Warn(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, db, err := config.ConnectDatabase(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Database connect failed: %v", err)
	}
	defer client.Disconnect(context.Background())
	log.Info("Database connection established")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	err = config.EnsureIndexes(ctx, db)
	cancel()
	if err != nil {
		log.Fatalf("Index creation failed: %v", err)
	}

	// Initialize services
	buildingService := services.NewBuildingService(db)
	adminService := services.NewAdminService(db)
	tokenService := services.NewTokenService(cfg.JWTSecret)

	var (
		assetStore services.AssetStore
		mapOpener  controllers.MapOpener
	)
	switch cfg.AssetStore {
	case config.AssetStoreGridFS:
		store, err := services.NewGridFSAssetStore(db, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("Asset store init failed: %v", err)
		}
		assetStore = store
		mapOpener = store
	default:
		assetStore = services.NewLocalAssetStore(cfg.UploadDir, cfg.PublicBaseURL)
	}
	assetService := services.NewAssetService(assetStore)

	// Initialize controllers
	authController := controllers.NewAuthController(adminService, tokenService)
	buildingController := controllers.NewBuildingController(buildingService)
	floorController := controllers.NewFloorController(buildingService, assetService)

	router := routes.SetupRouter(routes.Options{
		Auth:      authController,
		Buildings: buildingController,
		Floors:    floorController,
		Tokens:    tokenService,
		Maps:      mapOpener,
		UploadDir: cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received, shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
