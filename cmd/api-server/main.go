/*
 * Copyright (c) 2025 AgriTrust
 *
 * This source code is licensed under the Business Source License 1.1.
 *
 * Change Date: 2027-11-21
 * Change License: AGPL-3.0
 */

package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/agritrust/api-core/internal/config"
	"github.com/agritrust/api-core/internal/core/ports"
	"github.com/agritrust/api-core/internal/core/service"
	"github.com/agritrust/api-core/internal/platform/bus"
	"github.com/agritrust/api-core/internal/platform/cache"
	"github.com/agritrust/api-core/internal/platform/ledger/hedera"
	"github.com/agritrust/api-core/internal/platform/storage/ipfs"
	"github.com/agritrust/api-core/internal/platform/storage/postgres"
	"github.com/agritrust/api-core/internal/platform/storage/s3"
	"github.com/agritrust/api-core/internal/transport/rest"
	authmw "github.com/agritrust/api-core/internal/transport/rest/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	// 1. Configuration (Env Vars)
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 2. Database Connection
	ctx := context.Background()
	dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer dbPool.Close()

	// 2a. Cache and event bus
	redisStore := cache.NewRedisStore(cfg.RedisAddr)
	eventBus := bus.NewRedisEventBus(cfg.RedisAddr)

	// 2b. Hedera operator client (ledger log + NFT minter share it)
	hederaClient, err := hedera.NewClient(hedera.Config{
		Network:     cfg.HederaNetwork,
		OperatorID:  cfg.HederaOperatorID,
		OperatorKey: cfg.HederaPrivateKey,
		TopicID:     cfg.HCSTopicID,
		TokenID:     cfg.NFTTokenID,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Hedera client: %v", err)
	}
	defer hederaClient.Close()

	// 2c. Content store + metadata archive, both optional
	var contentStore ports.ContentStore
	if cfg.PinningEnabled() {
		contentStore = ipfs.NewPinataStore(ipfs.Config{
			JWT:        cfg.PinataJWT,
			GatewayURL: cfg.PinataGatewayURL,
		})
	} else {
		logger.Warn("PINATA_JWT not set, image and metadata pinning disabled")
	}

	var archiver ports.MetadataArchiver
	if cfg.ArchiveEnabled() {
		archiver, err = s3.NewMetadataArchive(ctx, s3.Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
		})
		if err != nil {
			log.Fatalf("Failed to initialize metadata archive: %v", err)
		}
	}

	// 3. Dependency Injection (Wiring)
	// Repo + collaborators -> Service -> Handler
	batchRepo := postgres.NewBatchRepository(dbPool)
	batchSvc, err := service.NewRegistrationService(
		batchRepo,
		hedera.NewTopicLog(hederaClient),
		hedera.NewNFTMinter(hederaClient),
		contentStore,
		archiver,
		redisStore,
		eventBus,
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to initialize service: %v", err)
	}

	batchHandler := rest.NewBatchHandler(batchSvc, logger, cfg.PublicBaseURL)

	// 4. Router Setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(httprate.LimitByIP(100, time.Minute))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Mount API routes behind farmer auth
	r.Route("/v1", func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret, logger))
		batchHandler.RegisterRoutes(r)
	})

	// 5. Start Server
	addr := ":" + cfg.Port
	log.Printf("AgriTrust API Server starting on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
