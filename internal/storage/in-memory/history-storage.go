package in_memory

import (
	"context"
	"sync"

	"github.com/pranesh-rpo/IrisChat/internal/model"
)

// HistoryStorage keeps conversation windows for the process lifetime.
// Each chat holds at most depth exchanges (depth*2 messages), oldest
// evicted first.
type HistoryStorage struct {
	mu    sync.Mutex
	depth int
	chats map[int64][]model.Message
}

func NewHistoryStorage(depth int) *HistoryStorage {
	return &HistoryStorage{
		depth: depth,
		chats: make(map[int64][]model.Message),
	}
}

func (h *HistoryStorage) AddMessage(_ context.Context, chatID int64, msg model.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	messages := append(h.chats[chatID], msg)
	if max := h.depth * 2; len(messages) > max {
		messages = messages[len(messages)-max:]
	}
	h.chats[chatID] = messages
	return nil
}

func (h *HistoryStorage) History(_ context.Context, chatID int64) ([]model.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	messages := make([]model.Message, len(h.chats[chatID]))
	copy(messages, h.chats[chatID])
	return messages, nil
}

func (h *HistoryStorage) Clear(_ context.Context, chatID int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.chats, chatID)
	return nil
}
