package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pranesh-rpo/IrisChat/internal/model"
)

type ModerationStorage struct {
	db *sql.DB
}

func NewModerationStorage(db *sql.DB) *ModerationStorage {
	return &ModerationStorage{
		db: db,
	}
}

// AddWarn records a warn and returns the user's total in that chat.
func (m *ModerationStorage) AddWarn(ctx context.Context, chatID, userID int64, reason string) (int, error) {
	_, err := m.db.ExecContext(
		ctx, `INSERT INTO warns (chat_id, user_id, reason, created_at) VALUES (?, ?, ?, ?)`,
		chatID, userID, reason, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to add warn for %v: %w", userID, err)
	}
	return m.WarnCount(ctx, chatID, userID)
}

func (m *ModerationStorage) WarnCount(ctx context.Context, chatID, userID int64) (int, error) {
	var count int
	err := m.db.QueryRowContext(
		ctx, `SELECT COUNT(*) FROM warns WHERE chat_id = ? AND user_id = ?`, chatID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count warns for %v: %w", userID, err)
	}
	return count, nil
}

func (m *ModerationStorage) ResetWarns(ctx context.Context, chatID, userID int64) error {
	if _, err := m.db.ExecContext(
		ctx, `DELETE FROM warns WHERE chat_id = ? AND user_id = ?`, chatID, userID,
	); err != nil {
		return fmt.Errorf("failed to reset warns for %v: %w", userID, err)
	}
	return nil
}

func (m *ModerationStorage) SetMute(ctx context.Context, chatID, userID int64, until time.Time) error {
	_, err := m.db.ExecContext(
		ctx, `INSERT INTO mutes (chat_id, user_id, muted_until) VALUES (?, ?, ?)
			ON CONFLICT (chat_id, user_id) DO UPDATE SET muted_until = excluded.muted_until`,
		chatID, userID, until.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set mute for %v: %w", userID, err)
	}
	return nil
}

func (m *ModerationStorage) ClearMute(ctx context.Context, chatID, userID int64) error {
	if _, err := m.db.ExecContext(
		ctx, `DELETE FROM mutes WHERE chat_id = ? AND user_id = ?`, chatID, userID,
	); err != nil {
		return fmt.Errorf("failed to clear mute for %v: %w", userID, err)
	}
	return nil
}

func (m *ModerationStorage) AddFilter(ctx context.Context, chatID int64, keyword string, isRegex bool) error {
	regexFlag := 0
	if isRegex {
		regexFlag = 1
	}
	if _, err := m.db.ExecContext(
		ctx, `INSERT INTO filters (chat_id, keyword, is_regex) VALUES (?, ?, ?)
			ON CONFLICT (chat_id, keyword) DO UPDATE SET is_regex = excluded.is_regex`,
		chatID, keyword, regexFlag,
	); err != nil {
		return fmt.Errorf("failed to add filter for %v: %w", chatID, err)
	}
	return nil
}

func (m *ModerationStorage) Filters(ctx context.Context, chatID int64) ([]model.Filter, error) {
	rows, err := m.db.QueryContext(
		ctx, `SELECT id, chat_id, keyword, is_regex FROM filters WHERE chat_id = ? ORDER BY id`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query filters for %v: %w", chatID, err)
	}
	defer rows.Close()

	filters := make([]model.Filter, 0)
	for rows.Next() {
		var filter model.Filter
		var regexFlag int
		if err = rows.Scan(&filter.ID, &filter.ChatID, &filter.Keyword, &regexFlag); err != nil {
			return nil, fmt.Errorf("failed to scan filter row: %w", err)
		}
		filter.IsRegex = regexFlag != 0
		filters = append(filters, filter)
	}
	return filters, rows.Err()
}
