package usecase

import (
	"context"

	"github.com/pranesh-rpo/IrisChat/internal/llm"
	"github.com/pranesh-rpo/IrisChat/internal/logger"
	"github.com/pranesh-rpo/IrisChat/internal/model"
	"github.com/pranesh-rpo/IrisChat/internal/prompt"
)

type HistoryStorage interface {
	AddMessage(ctx context.Context, chatID int64, msg model.Message) error
	History(ctx context.Context, chatID int64) ([]model.Message, error)
	Clear(ctx context.Context, chatID int64) error
}

type SettingsStorage interface {
	ChatSettings(ctx context.Context, chatID int64) (model.ChatSettings, error)
	SetChatMode(ctx context.Context, chatID int64, mode model.ChatMode, scenario string) error
}

type Generator interface {
	Generate(ctx context.Context, p llm.Prompt) (string, error)
}

type AIUsecaseDeps struct {
	History  HistoryStorage
	Settings SettingsStorage
	Chain    Generator
}

type AIUsecase struct {
	AIUsecaseDeps
	builder *prompt.Builder
}

func NewAIUsecase(deps AIUsecaseDeps, tokenBudget int) *AIUsecase {
	return &AIUsecase{
		AIUsecaseDeps: deps,
		builder:       prompt.NewBuilder(tokenBudget),
	}
}

// Reply runs the full pipeline for one triggering message: load chat
// settings and history, build the prompt, walk the provider chain and
// record both sides of the exchange. Provider exhaustion degrades to
// the static apology, never an error.
func (a *AIUsecase) Reply(ctx context.Context, chatID int64, userText, userName string, private bool) string {
	settings, err := a.Settings.ChatSettings(ctx, chatID)
	if err != nil {
		logger.L.Warn("failed to get chat settings, using defaults", "chat_id", chatID, "error", err)
		settings = model.ChatSettings{ChatID: chatID, Mode: model.ChatModeNormal}
	}

	history, err := a.History.History(ctx, chatID)
	if err != nil {
		logger.L.Warn("failed to get history, replying without context", "chat_id", chatID, "error", err)
	}

	p := a.builder.Build(prompt.System(settings, private), history, userText, userName)
	reply, err := a.Chain.Generate(ctx, p)
	if err != nil {
		logger.L.Error("failed to generate reply", "chat_id", chatID, "error", err)
		return textBrainGlitched.Default
	}

	if err = a.History.AddMessage(
		ctx, chatID, model.Message{
			Source:     model.MessageSourceUser,
			SenderName: userName,
			Body:       userText,
		},
	); err != nil {
		logger.L.Warn("failed to save user message", "chat_id", chatID, "error", err)
	}
	if err = a.History.AddMessage(
		ctx, chatID, model.Message{
			Source: model.MessageSourceAssistant,
			Body:   reply,
		},
	); err != nil {
		logger.L.Warn("failed to save assistant message", "chat_id", chatID, "error", err)
	}
	return reply
}

func (a *AIUsecase) Reset(ctx context.Context, chatID int64) error {
	return a.History.Clear(ctx, chatID)
}

func (a *AIUsecase) SetRoleplay(ctx context.Context, chatID int64, scenario string) error {
	return a.Settings.SetChatMode(ctx, chatID, model.ChatModeRoleplay, scenario)
}

func (a *AIUsecase) SetNormal(ctx context.Context, chatID int64) error {
	return a.Settings.SetChatMode(ctx, chatID, model.ChatModeNormal, "")
}
