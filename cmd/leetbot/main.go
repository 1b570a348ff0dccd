package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadedpez/leetbot/internal/bot"
	"github.com/fadedpez/leetbot/internal/config"
	"github.com/fadedpez/leetbot/internal/discord"
	"github.com/fadedpez/leetbot/internal/games"
	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/internal/server"
	"github.com/fadedpez/leetbot/pkg/leetcode"
	"github.com/fadedpez/leetbot/pkg/repositories/match"
	"github.com/fadedpez/leetbot/pkg/services/stats"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger, err := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()
	logging.Default = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	matchRepo := openMatchRepository(ctx, cfg, logger)
	defer matchRepo.Close()

	questions, err := leetcode.NewClient(cfg.LeetCodeURL, nil)
	if err != nil {
		logger.Error("Error creating LeetCode client: %v", err)
		os.Exit(1)
	}

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		logger.Error("Error creating Discord session: %v", err)
		os.Exit(1)
	}

	b := bot.New(cfg, session, games.NewRegistry(), stats.NewService(matchRepo), questions, logger)

	var opts server.Options
	opts.Logger = logger
	if cfg.IsHTTPMode() {
		opts.PublicKey, err = server.ParsePublicKey(cfg.PublicKey)
		if err != nil {
			logger.Error("Error parsing PUBLIC_KEY: %v", err)
			os.Exit(1)
		}
	}
	srv := server.New(cfg.HTTPAddr, server.SetupRoutes(b, b, opts), logger)
	serverErrs := srv.Start()

	if err := b.Start(ctx); err != nil {
		logger.Error("Error starting bot: %v", err)
		os.Exit(1)
	}
	logger.Info("Bot is running in %s mode. Press Ctrl+C to exit", cfg.InteractionsMode)

	select {
	case <-ctx.Done():
	case err := <-serverErrs:
		if err != nil {
			logger.Error("HTTP server failed: %v", err)
		}
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error stopping HTTP server: %v", err)
	}
	b.Shutdown()
}

// openMatchRepository picks the match history store, falling back to memory
// when SQLite cannot be opened
func openMatchRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) match.Repository {
	var repo match.Repository = match.NewMemoryRepository()

	if cfg.StorageType == config.StorageSQLite {
		dbPath := cfg.SQLitePath()
		logger.Info("Initializing SQLite repository at %s", dbPath)
		sqliteRepo, err := match.NewSQLiteRepository(dbPath, logger)
		if err != nil {
			logger.Warn("Failed to initialize SQLite repository: %v. Falling back to in-memory repository", err)
		} else {
			repo = sqliteRepo
		}
	} else {
		logger.Info("Using in-memory repository for match history (data will be lost on restart)")
	}

	if cfg.ElasticsearchURL == "" {
		return repo
	}

	esRepo, err := match.NewElasticsearchRepository(ctx, repo, match.ElasticsearchConfig{
		URL:      cfg.ElasticsearchURL,
		Username: cfg.ElasticsearchUsername,
		Password: cfg.ElasticsearchPassword,
		Index:    cfg.ElasticsearchIndex,
	}, logger)
	if err != nil {
		logger.Warn("Failed to initialize Elasticsearch, matches will not be indexed: %v", err)
		return repo
	}
	logger.Info("Indexing matches into Elasticsearch index %s", cfg.ElasticsearchIndex)
	return esRepo
}
