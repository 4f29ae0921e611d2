package app

import (
	"context"
	"errors"
	"fmt"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/redis/go-redis/v9"

	"github.com/pranesh-rpo/IrisChat/config"
	"github.com/pranesh-rpo/IrisChat/internal/llm"
	"github.com/pranesh-rpo/IrisChat/internal/logger"
	in_memory "github.com/pranesh-rpo/IrisChat/internal/storage/in-memory"
	key_value "github.com/pranesh-rpo/IrisChat/internal/storage/key-value"
	"github.com/pranesh-rpo/IrisChat/internal/storage/sqlite"
	"github.com/pranesh-rpo/IrisChat/internal/usecase"
)

var ErrNoProviders = errors.New("no LLM provider configured")

func Run(ctx context.Context, cfg *config.Config) error {
	bot, err := api.NewBotAPI(cfg.Telegram.APIToken)
	if err != nil {
		return fmt.Errorf("failed to create new bot: %w", err)
	}
	logger.L.Info("authorized on account", "username", bot.Self.UserName)

	chain, err := buildProviderChain(cfg.Providers)
	if err != nil {
		return err
	}
	logger.L.Info("provider chain ready", "providers", chain.Names())

	db, err := sqlite.Open(cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}
	defer db.Close()

	var historyStorage usecase.HistoryStorage
	if cfg.Redis.Endpoint != "" {
		rdb := redis.NewClient(
			&redis.Options{
				Addr: cfg.Redis.Endpoint,
			},
		)
		historyStorage = key_value.NewHistoryStorage(rdb, cfg.Chat.HistoryDepth)
		logger.L.Info("using redis history storage", "endpoint", cfg.Redis.Endpoint)
	} else {
		historyStorage = in_memory.NewHistoryStorage(cfg.Chat.HistoryDepth)
		logger.L.Info("using in-memory history storage")
	}

	aiUsecase := usecase.NewAIUsecase(
		usecase.AIUsecaseDeps{
			History:  historyStorage,
			Settings: sqlite.NewSettingsStorage(db),
			Chain:    chain,
		}, cfg.Chat.TokenBudget,
	)

	economyUsecase := usecase.NewEconomyUsecase(
		usecase.EconomyUsecaseDeps{
			Ledger: sqlite.NewLedgerStorage(db),
		},
	)

	moderationUsecase := usecase.NewModerationUsecase(
		usecase.ModerationUsecaseDeps{
			Storage: sqlite.NewModerationStorage(db),
		}, cfg.Moderation,
	)

	telegramUsecase, err := usecase.NewTelegramUsecase(
		cfg.Telegram, cfg.Payment, bot.Self.UserName, bot.Self.ID,
		usecase.TelegramUsecaseDeps{
			Bot:        bot,
			AI:         aiUsecase,
			Economy:    economyUsecase,
			Moderation: moderationUsecase,
			Fun:        usecase.NewFunUsecase(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create telegram usecase: %w", err)
	}

	return telegramUsecase.Run(ctx)
}

// buildProviderChain assembles the fallback chain in priority order
// from whatever credentials are configured. An empty chain is a fatal
// misconfiguration.
func buildProviderChain(cfg config.Providers) (*llm.Chain, error) {
	providers := make([]llm.Provider, 0, 4)
	if cfg.OllamaBaseURL != "" {
		ollama, err := llm.NewOllama(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Temperature)
		if err != nil {
			return nil, fmt.Errorf("failed to configure ollama provider: %w", err)
		}
		providers = append(providers, ollama)
	}
	if len(cfg.GroqAPIKeys) > 0 {
		providers = append(providers, llm.NewGroq(cfg.GroqAPIKeys, cfg.GroqModel, cfg.Temperature))
	}
	if len(cfg.GeminiAPIKeys) > 0 {
		providers = append(providers, llm.NewGemini(cfg.GeminiAPIKeys, cfg.GeminiModel))
	}
	if len(cfg.OpenRouterAPIKeys) > 0 {
		providers = append(providers, llm.NewOpenRouter(cfg.OpenRouterAPIKeys, cfg.OpenRouterModel, cfg.Temperature))
	}
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	return llm.NewChain(cfg.Timeout, providers...), nil
}
