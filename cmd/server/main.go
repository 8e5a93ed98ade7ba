package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyquest-backend/internal/config"
	"studyquest-backend/internal/database"
	"studyquest-backend/internal/extract"
	"studyquest-backend/internal/handlers"
	"studyquest-backend/internal/middleware"
	"studyquest-backend/internal/repository"
	"studyquest-backend/internal/router"
	"studyquest-backend/internal/services"
	"studyquest-backend/internal/websocket"
	"studyquest-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting StudyQuest Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	uploadRepo := repository.NewUploadRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)
	scoreRepo := repository.NewScoreRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth)
	mediaService := services.NewMediaSearchService()
	extractService := extract.NewService()
	urlExtractor := extract.NewURLExtractor()
	generator := services.NewTemplateGenerator(time.Duration(cfg.GenerationDelay) * time.Millisecond)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	uploadHandler := handlers.NewUploadHandler(uploadRepo, sessionRepo, jobRepo, redisClients.Queue, cfg.StoragePath)
	gameHandler := handlers.NewGameHandler(sessionRepo, scoreRepo, userRepo)
	userHandler := handlers.NewUserHandler(userRepo, scoreRepo, redisClients.Queue)
	adminHandler := handlers.NewAdminHandler(userRepo, uploadRepo, sessionRepo, scoreRepo)
	mediaHandler := handlers.NewMediaHandler(mediaService)
	jobHandler := handlers.NewJobHandler(jobRepo)

	// ──── Step 5: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		extractService,
		urlExtractor,
		generator,
		uploadRepo,
		sessionRepo,
		jobRepo,
		cfg.StoragePath,
		cfg.TokenBudget,
		cfg.WorkerCount,
	)
	workerPool.Start()

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		uploadHandler,
		gameHandler,
		userHandler,
		adminHandler,
		mediaHandler,
		jobHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ StudyQuest Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
