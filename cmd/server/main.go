package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shreyat81/mini-drive-backend/internal/admin"
	"github.com/shreyat81/mini-drive-backend/internal/config"
	"github.com/shreyat81/mini-drive-backend/internal/controllers"
	"github.com/shreyat81/mini-drive-backend/internal/database"
	"github.com/shreyat81/mini-drive-backend/internal/middleware"
	"github.com/shreyat81/mini-drive-backend/internal/repositories"
	"github.com/shreyat81/mini-drive-backend/internal/routes"
	"github.com/shreyat81/mini-drive-backend/internal/services"
	"github.com/shreyat81/mini-drive-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	db, err := database.Connect(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("error closing database: %v", err)
		}
	}()

	store, err := buildStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	requestRepo := repositories.NewAccessRequestRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	fileService := services.NewFileService(db, fileRepo, userRepo, store)
	sharingService := services.NewSharingService(fileRepo, requestRepo, userRepo)

	// Initialize controllers
	authController := controllers.NewAuthController(authService)
	userController := controllers.NewUserController(userService, fileService)
	fileController := controllers.NewFileController(fileService, cfg)
	shareController := controllers.NewShareController(sharingService, fileService)

	// Setup router
	router := gin.Default()
	router.Use(corsMiddleware())
	routes.SetupRoutes(
		router,
		fileController,
		shareController,
		authController,
		userController,
		middleware.AuthMiddleware(cfg),
		middleware.AdminOnly(),
	)

	admin.Setup(router, db, store, cfg)

	readTimeout, err := cfg.Server.GetReadTimeout()
	if err != nil {
		log.Fatalf("invalid read_timeout: %v", err)
	}
	writeTimeout, err := cfg.Server.GetWriteTimeout()
	if err != nil {
		log.Fatalf("invalid write_timeout: %v", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	go func() {
		log.Printf("Server running on %s (storage=%T)", srv.Addr, store)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to run server: %v", err)
		}
	}()

	waitForShutdown(srv, cfg)
}

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.BlobStore.Provider {
	case "azure":
		return storage.NewAzureBlobStorage(
			cfg.BlobStore.Endpoint,
			cfg.BlobStore.AccessKey,
			cfg.BlobStore.SecretKey,
			cfg.BlobStore.Bucket,
		)
	case "minio":
		store, err := storage.NewMinIOStorage(
			cfg.BlobStore.Endpoint,
			cfg.BlobStore.AccessKey,
			cfg.BlobStore.SecretKey,
			cfg.BlobStore.Bucket,
			cfg.BlobStore.UseSSL,
		)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			return nil, err
		}
		return store, nil
	case "local", "":
		basePath := cfg.BlobStore.Path
		if basePath == "" {
			basePath = "./storage/uploads"
		}
		return storage.NewLocalStorage(basePath), nil
	default:
		return nil, fmt.Errorf("unknown blob store provider %q", cfg.BlobStore.Provider)
	}
}

func waitForShutdown(srv *http.Server, cfg *config.Config) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down server...")

	timeout, err := cfg.Server.GetShutdownTimeout()
	if err != nil || timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Cron-Secret")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
