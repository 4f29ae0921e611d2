package in_memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pranesh-rpo/IrisChat/internal/model"
)

func TestHistoryStorage_EvictsOldestExchange(t *testing.T) {
	ctx := context.Background()
	storage := NewHistoryStorage(2)

	for i := 0; i < 3; i++ {
		require.NoError(
			t, storage.AddMessage(
				ctx, 1, model.Message{Source: model.MessageSourceUser, Body: fmt.Sprintf("question %d", i)},
			),
		)
		require.NoError(
			t, storage.AddMessage(
				ctx, 1, model.Message{Source: model.MessageSourceAssistant, Body: fmt.Sprintf("answer %d", i)},
			),
		)
	}

	history, err := storage.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 4)
	require.Equal(t, "question 1", history[0].Body)
	require.Equal(t, "answer 2", history[3].Body)
}

func TestHistoryStorage_ChatsAreIsolated(t *testing.T) {
	ctx := context.Background()
	storage := NewHistoryStorage(10)

	require.NoError(t, storage.AddMessage(ctx, 1, model.Message{Body: "chat one"}))
	require.NoError(t, storage.AddMessage(ctx, 2, model.Message{Body: "chat two"}))

	history, err := storage.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "chat one", history[0].Body)
}

func TestHistoryStorage_Clear(t *testing.T) {
	ctx := context.Background()
	storage := NewHistoryStorage(10)

	require.NoError(t, storage.AddMessage(ctx, 1, model.Message{Body: "hello"}))
	require.NoError(t, storage.Clear(ctx, 1))

	history, err := storage.History(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestHistoryStorage_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	storage := NewHistoryStorage(10)

	require.NoError(t, storage.AddMessage(ctx, 1, model.Message{Body: "original"}))

	history, err := storage.History(ctx, 1)
	require.NoError(t, err)
	history[0].Body = "mutated"

	again, err := storage.History(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "original", again[0].Body)
}
