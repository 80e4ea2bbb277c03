package main

import (
	"adaptivequiz/internal/cache"
	"adaptivequiz/internal/config"
	"adaptivequiz/internal/llm"
	"adaptivequiz/internal/logging"
	"adaptivequiz/internal/repository"
	"adaptivequiz/internal/service"
	"adaptivequiz/internal/transport/rest"
	"adaptivequiz/internal/transport/rest/middleware"
	"adaptivequiz/internal/transport/ws"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// @title Adaptive Quiz API
// @version 1.0
// @description LLM-backed adaptive quiz procedures and hosted quiz sessions
// @host localhost:8080
// @BasePath /
func main() {
	printStartUpBanner()

	cfg := config.Load()
	logCloser := logging.Setup(cfg.LogFile)
	defer logCloser.Close()

	ctx := context.Background()

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Endpoint:   %s", aiConfig.BaseURL)
	log.Printf("  Summary:    %s", aiConfig.Models.Summary)
	log.Printf("  Outline:    %s", aiConfig.Models.Outline)
	log.Printf("  Question:   %s", aiConfig.Models.Question)
	log.Printf("  Validation: %s", aiConfig.Models.Validation)
	log.Printf("  Completion: %s", aiConfig.Models.Completion)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:    configured")
	} else {
		log.Println("  API Key:    NOT SET (model calls will be rejected upstream)")
	}

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// MongoDB is optional, it only backs the results archive
	var results repository.ResultRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		log.Println("Connected to MongoDB")

		results = repository.NewResultRepo(mongoClient.Database(cfg.MongoDB))
	} else {
		log.Println("Warning: MONGO_URI not set, results archive disabled")
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	llmClient := llm.NewClient(aiConfig)
	quizSvc := service.NewQuizService(llmClient, aiConfig)
	authSvc := service.NewAuthService(cfg.JWTSecret, cfg.SessionTTL)
	sessionCache := cache.NewSessionCache(rdb, cfg.SessionTTL, cfg.LockTTL)
	sessionSvc := service.NewSessionService(quizSvc, sessionCache, results, authSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	sessionSvc.SetBroadcaster(wsHub)

	limiter := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, cfg.TrustProxy)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.Cleanup(10 * time.Minute)
		}
	}()

	// Create router with container
	container := &rest.Container{
		AuthService:    authSvc,
		QuizService:    quizSvc,
		SessionService: sessionSvc,
		RateLimiter:    limiter,
		WSHub:          wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/quiz/{content,outline,generateQuestion,validateAnswer,checkCompletion}")
		log.Println("  POST /v1/sessions")
		log.Println("  GET/DELETE /v1/sessions/{id}")
		log.Println("  POST /v1/sessions/{id}/answers")
		log.Println("  POST /v1/sessions/{id}/retry")
		log.Println("  GET  /v1/sessions/{id}/result")
		log.Println("  GET  /v1/results")
		log.Println("  WS   /v1/ws/sessions/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func printStartUpBanner() {
	banner := figure.NewFigure("QUIZ", "", true)
	banner.Print()

	fmt.Println("======================================================")
	fmt.Printf("Adaptive Quiz API (v%s)\n\n", "1.0.0")
}
