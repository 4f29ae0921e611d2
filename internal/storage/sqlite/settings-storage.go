package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pranesh-rpo/IrisChat/internal/model"
)

type SettingsStorage struct {
	db *sql.DB
}

func NewSettingsStorage(db *sql.DB) *SettingsStorage {
	return &SettingsStorage{
		db: db,
	}
}

// ChatSettings returns the stored settings or normal-mode defaults for
// chats that were never configured.
func (s *SettingsStorage) ChatSettings(ctx context.Context, chatID int64) (model.ChatSettings, error) {
	var mode, scenario string
	err := s.db.QueryRowContext(
		ctx, `SELECT mode, scenario FROM chat_settings WHERE chat_id = ?`, chatID,
	).Scan(&mode, &scenario)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ChatSettings{ChatID: chatID, Mode: model.ChatModeNormal}, nil
	}
	if err != nil {
		return model.ChatSettings{}, fmt.Errorf("failed to get settings for %v: %w", chatID, err)
	}
	return model.ChatSettings{
		ChatID:   chatID,
		Mode:     model.ParseChatMode(mode),
		Scenario: scenario,
	}, nil
}

func (s *SettingsStorage) SetChatMode(ctx context.Context, chatID int64, mode model.ChatMode, scenario string) error {
	_, err := s.db.ExecContext(
		ctx, `INSERT INTO chat_settings (chat_id, mode, scenario) VALUES (?, ?, ?)
			ON CONFLICT (chat_id) DO UPDATE SET mode = excluded.mode, scenario = excluded.scenario`,
		chatID, string(mode), scenario,
	)
	if err != nil {
		return fmt.Errorf("failed to set mode for %v: %w", chatID, err)
	}
	return nil
}
