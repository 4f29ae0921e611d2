package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pranesh-rpo/IrisChat/internal/model"
)

type messageInternal struct {
	Source     model.MessageSource `json:"source"`
	SenderName string              `json:"sender_name,omitempty"`
	Body       string              `json:"body"`
}

type historyInternal struct {
	Messages []messageInternal `json:"messages"`
}

// HistoryStorage persists conversation windows in Redis so they survive
// restarts. One JSON blob per chat, trimmed to depth exchanges on write.
type HistoryStorage struct {
	rdb   *redis.Client
	depth int
}

func NewHistoryStorage(rdb *redis.Client, depth int) *HistoryStorage {
	return &HistoryStorage{
		rdb:   rdb,
		depth: depth,
	}
}

func (h *HistoryStorage) AddMessage(ctx context.Context, chatID int64, msg model.Message) error {
	historyInt, err := h.getHistoryInt(ctx, chatID)
	if err != nil {
		return err
	}
	historyInt.Messages = append(
		historyInt.Messages, messageInternal{
			Source:     msg.Source,
			SenderName: msg.SenderName,
			Body:       msg.Body,
		},
	)
	if max := h.depth * 2; len(historyInt.Messages) > max {
		historyInt.Messages = historyInt.Messages[len(historyInt.Messages)-max:]
	}
	return h.setHistoryInt(ctx, chatID, historyInt)
}

func (h *HistoryStorage) History(ctx context.Context, chatID int64) ([]model.Message, error) {
	historyInt, err := h.getHistoryInt(ctx, chatID)
	if err != nil {
		return nil, err
	}
	messages := make([]model.Message, 0, len(historyInt.Messages))
	for _, msg := range historyInt.Messages {
		messages = append(
			messages, model.Message{
				Source:     msg.Source,
				SenderName: msg.SenderName,
				Body:       msg.Body,
			},
		)
	}
	return messages, nil
}

func (h *HistoryStorage) Clear(ctx context.Context, chatID int64) error {
	if err := h.rdb.Del(ctx, getHistoryKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete history %v: %w", chatID, err)
	}
	return nil
}

func (h *HistoryStorage) getHistoryInt(ctx context.Context, chatID int64) (historyInternal, error) {
	historyRaw, err := h.rdb.Get(ctx, getHistoryKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return historyInternal{}, nil
		}
		return historyInternal{}, fmt.Errorf("failed to get history %v: %w", chatID, err)
	}
	var historyInt historyInternal
	if err = json.Unmarshal([]byte(historyRaw), &historyInt); err != nil {
		return historyInternal{}, fmt.Errorf("failed to unmarshal history %v: %w", chatID, err)
	}
	return historyInt, nil
}

func (h *HistoryStorage) setHistoryInt(ctx context.Context, chatID int64, historyInt historyInternal) error {
	historyJSON, err := json.Marshal(historyInt)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err = h.rdb.Set(ctx, getHistoryKey(chatID), historyJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history %v: %w", chatID, err)
	}
	return nil
}

func getHistoryKey(chatID int64) string {
	return fmt.Sprintf("history_%v", chatID)
}
