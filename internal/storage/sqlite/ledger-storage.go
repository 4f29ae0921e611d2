package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pranesh-rpo/IrisChat/internal/model"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type LedgerStorage struct {
	db *sql.DB
}

func NewLedgerStorage(db *sql.DB) *LedgerStorage {
	return &LedgerStorage{
		db: db,
	}
}

func (l *LedgerStorage) Balance(ctx context.Context, userID int64) (int64, error) {
	var balance int64
	err := l.db.QueryRowContext(ctx, `SELECT balance FROM balances WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance for %v: %w", userID, err)
	}
	return balance, nil
}

// Deposit credits amount to the user, creating the account on first
// touch, and returns the new balance.
func (l *LedgerStorage) Deposit(ctx context.Context, userID int64, name string, amount int64) (int64, error) {
	_, err := l.db.ExecContext(
		ctx, `INSERT INTO balances (user_id, name, balance) VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET balance = balance + excluded.balance, name = excluded.name`,
		userID, name, amount,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to deposit to %v: %w", userID, err)
	}
	return l.Balance(ctx, userID)
}

// Withdraw debits amount from the user inside one transaction. The
// balance is re-checked under the transaction, so a concurrent overdraw
// attempt fails with ErrInsufficientFunds and nothing is applied.
func (l *LedgerStorage) Withdraw(ctx context.Context, userID, amount int64) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin withdraw tx: %w", err)
	}
	defer tx.Rollback()

	balance, err := balanceTx(ctx, tx, userID)
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, ErrInsufficientFunds
	}
	if _, err = tx.ExecContext(
		ctx, `UPDATE balances SET balance = balance - ? WHERE user_id = ?`, amount, userID,
	); err != nil {
		return 0, fmt.Errorf("failed to withdraw from %v: %w", userID, err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit withdraw: %w", err)
	}
	return balance - amount, nil
}

// Transfer moves amount from one user to another in one transaction:
// either both sides apply or neither does.
func (l *LedgerStorage) Transfer(ctx context.Context, from, to int64, toName string, amount int64) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer tx: %w", err)
	}
	defer tx.Rollback()

	balance, err := balanceTx(ctx, tx, from)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds
	}
	if _, err = tx.ExecContext(
		ctx, `UPDATE balances SET balance = balance - ? WHERE user_id = ?`, amount, from,
	); err != nil {
		return fmt.Errorf("failed to debit %v: %w", from, err)
	}
	if _, err = tx.ExecContext(
		ctx, `INSERT INTO balances (user_id, name, balance) VALUES (?, ?, ?)
			ON CONFLICT (user_id) DO UPDATE SET balance = balance + excluded.balance, name = excluded.name`,
		to, toName, amount,
	); err != nil {
		return fmt.Errorf("failed to credit %v: %w", to, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

func (l *LedgerStorage) SetName(ctx context.Context, userID int64, name string) error {
	_, err := l.db.ExecContext(
		ctx, `INSERT INTO balances (user_id, name) VALUES (?, ?)
			ON CONFLICT (user_id) DO UPDATE SET name = excluded.name`,
		userID, name,
	)
	if err != nil {
		return fmt.Errorf("failed to set name for %v: %w", userID, err)
	}
	return nil
}

func (l *LedgerStorage) Leaderboard(ctx context.Context, limit int) ([]model.Account, error) {
	rows, err := l.db.QueryContext(
		ctx, `SELECT user_id, name, balance FROM balances WHERE balance > 0 ORDER BY balance DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0, limit)
	for rows.Next() {
		var account model.Account
		if err = rows.Scan(&account.TelegramID, &account.Name, &account.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Cooldown returns when the user last performed the action, if ever.
func (l *LedgerStorage) Cooldown(ctx context.Context, userID int64, action string) (time.Time, bool, error) {
	var lastUsed string
	err := l.db.QueryRowContext(
		ctx, `SELECT last_used_at FROM cooldowns WHERE user_id = ? AND action = ?`, userID, action,
	).Scan(&lastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to get cooldown for %v: %w", userID, err)
	}
	at, err := time.Parse(time.RFC3339, lastUsed)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse cooldown time: %w", err)
	}
	return at, true, nil
}

func (l *LedgerStorage) SetCooldown(ctx context.Context, userID int64, action string, at time.Time) error {
	_, err := l.db.ExecContext(
		ctx, `INSERT INTO cooldowns (user_id, action, last_used_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, action) DO UPDATE SET last_used_at = excluded.last_used_at`,
		userID, action, at.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set cooldown for %v: %w", userID, err)
	}
	return nil
}

func balanceTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var balance int64
	err := tx.QueryRowContext(ctx, `SELECT balance FROM balances WHERE user_id = ?`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get balance for %v: %w", userID, err)
	}
	return balance, nil
}
