package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLedger_DepositAndBalance(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	balance, err := ledger.Balance(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, balance)

	balance, err = ledger.Deposit(ctx, 1, "Alice", 500)
	require.NoError(t, err)
	require.EqualValues(t, 500, balance)

	balance, err = ledger.Deposit(ctx, 1, "Alice", 250)
	require.NoError(t, err)
	require.EqualValues(t, 750, balance)
}

func TestLedger_WithdrawInsufficientFundsLeavesBalance(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, err := ledger.Deposit(ctx, 1, "Alice", 100)
	require.NoError(t, err)

	_, err = ledger.Withdraw(ctx, 1, 200)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err := ledger.Balance(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 100, balance)
}

func TestLedger_WithdrawFromUnknownUser(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, err := ledger.Withdraw(ctx, 42, 1)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestLedger_ConcurrentOverdrawNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, err := ledger.Deposit(ctx, 1, "Alice", 500)
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Withdraw(ctx, 1, 100); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 5, succeeded)
	balance, err := ledger.Balance(ctx, 1)
	require.NoError(t, err)
	require.Zero(t, balance)
}

func TestLedger_TransferMovesFundsAtomically(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, err := ledger.Deposit(ctx, 1, "Alice", 300)
	require.NoError(t, err)

	require.NoError(t, ledger.Transfer(ctx, 1, 2, "Bob", 100))

	from, err := ledger.Balance(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 200, from)
	to, err := ledger.Balance(ctx, 2)
	require.NoError(t, err)
	require.EqualValues(t, 100, to)
}

func TestLedger_TransferInsufficientFundsChangesNothing(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, err := ledger.Deposit(ctx, 1, "Alice", 50)
	require.NoError(t, err)

	require.ErrorIs(t, ledger.Transfer(ctx, 1, 2, "Bob", 100), ErrInsufficientFunds)

	from, err := ledger.Balance(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 50, from)
	to, err := ledger.Balance(ctx, 2)
	require.NoError(t, err)
	require.Zero(t, to)
}

func TestLedger_Leaderboard(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, err := ledger.Deposit(ctx, 1, "Alice", 100)
	require.NoError(t, err)
	_, err = ledger.Deposit(ctx, 2, "Bob", 300)
	require.NoError(t, err)
	require.NoError(t, ledger.SetName(ctx, 3, "Carol"))

	accounts, err := ledger.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	require.Equal(t, "Bob", accounts[0].Name)
	require.EqualValues(t, 300, accounts[0].Balance)
	require.Equal(t, "Alice", accounts[1].Name)
}

func TestLedger_CooldownRoundTrip(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerStorage(openTestDB(t))

	_, ok, err := ledger.Cooldown(ctx, 1, "daily")
	require.NoError(t, err)
	require.False(t, ok)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ledger.SetCooldown(ctx, 1, "daily", at))

	got, ok, err := ledger.Cooldown(ctx, 1, "daily")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Equal(at))

	// Different actions track independently.
	_, ok, err = ledger.Cooldown(ctx, 1, "work")
	require.NoError(t, err)
	require.False(t, ok)
}
