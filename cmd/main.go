package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/argus-grade/argus/internal/api"
	"github.com/argus-grade/argus/internal/config"
	"github.com/argus-grade/argus/internal/configs/env"
	"github.com/argus-grade/argus/internal/index"
	"github.com/argus-grade/argus/internal/infra/mongo"
	redisInfra "github.com/argus-grade/argus/internal/infra/redis"
	"github.com/argus-grade/argus/internal/ingest"
	"github.com/argus-grade/argus/internal/logger"
	"github.com/argus-grade/argus/internal/plagiarism"
	"github.com/argus-grade/argus/internal/stream"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := env.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Failed to load .env file, continuing with system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	logger.Init(cfg.LogLevel, cfg.Env)
	log.Info().Msg("Starting ARGUS server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect MongoDB
	mongoClient, err := mongo.NewClient(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create MongoDB client")
	}
	defer mongoClient.Close(ctx)

	// Connect Redis
	redisClient, err := redisInfra.NewClient(ctx, cfg.RedisHost, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis client")
	}
	defer redisClient.Close()

	// Submission index and report store
	store := index.NewMongoStore(mongoClient)

	// Ingest service turns raw submissions into fingerprint records
	ingestSvc := ingest.NewService(store, cfg.KGramSize, cfg.WinnowWindow)

	// Initialize worker pool and comparison engine
	workerPool := plagiarism.NewWorkerPool(ctx)
	defer workerPool.Close()

	comparator := plagiarism.NewComparator()
	comparator.JaccardWeight = cfg.JaccardWeight
	comparator.LCSWeight = cfg.LCSWeight
	comparator.PartialThreshold = cfg.PartialThreshold
	engine := plagiarism.NewEngine(comparator, workerPool)

	router := api.SetupRoutes(cfg, store, store, ingestSvc, engine, redisClient)

	// Start Redis stream consumer in background unless disabled
	if cfg.StreamConsumerEnabled {
		retryHandler := stream.NewRetryHandler(redisClient.Client, cfg.RedisDeadLetterKey, cfg.StreamMaxRetries)

		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "unknown"
		}
		consumerName := fmt.Sprintf("consumer-%s-%d-%s", hostname, os.Getpid(), uuid.New().String()[:8])
		consumer := stream.NewConsumer(
			redisClient.Client,
			cfg.RedisStreamKey,
			cfg.RedisConsumerGroup,
			consumerName,
			ingestSvc,
			retryHandler,
			cfg.StreamRetentionDuration,
		)

		consumerCtx, consumerCancel := context.WithCancel(ctx)
		go func() {
			defer consumerCancel()
			if err := consumer.Start(consumerCtx); err != nil && err != context.Canceled {
				log.Error().Err(err).Msg("Redis consumer error")
			}
		}()
		log.Info().Str("consumer_name", consumerName).Msg("Redis stream consumer started")
	} else {
		log.Info().Msg("Redis stream consumer disabled")
	}

	// Gin handles all HTTP routing, middleware (auth, rate limiter, metrics)
	// and request processing
	srv := api.StartServer(router, cfg.ServerPort)

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down gracefully...")

	if err := api.ShutdownServer(srv, 30*time.Second); err != nil {
		log.Error().Err(err).Msg("Error shutting down Gin server")
	}

	log.Info().Msg("Shutdown complete")
}
