package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/docenthq/docent/internal/config"
	"github.com/docenthq/docent/internal/core"
	"github.com/docenthq/docent/internal/core/llm"
	payloadstore "github.com/docenthq/docent/internal/core/payload_store"
	"github.com/docenthq/docent/internal/logging"
)

type App struct {
	Store  core.PayloadStore
	LLM    *llm.GeminiLLM
	Logger *zap.Logger
	Server *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.Pipeline.Debug)
	if err != nil {
		return nil, fmt.Errorf("couldn't build the logger, %w", err)
	}

	// Memory store by default; Redis when configured, so initiate and stream
	// requests may land on different instances.
	var store core.PayloadStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("couldn't reach redis at %s, %w", cfg.RedisAddr, err)
		}
		store = payloadstore.NewRedisStore(client, cfg.StreamTTL)
		logger.Info("payload store ready", zap.String("backend", "redis"))
	} else {
		store = payloadstore.NewMemoryStore(cfg.StreamTTL)
		logger.Info("payload store ready", zap.String("backend", "memory"))
	}

	llmProvider, err := llm.NewGeminiLLM(ctx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the llm provider, %w", err)
	}

	server := NewServer(cfg, store, llmProvider, logger)

	return &App{Store: store, LLM: llmProvider, Logger: logger, Server: server}, nil
}

func (a *App) Close() {
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
