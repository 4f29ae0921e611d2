package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pranesh-rpo/IrisChat/internal/model"
	"github.com/pranesh-rpo/IrisChat/internal/storage/sqlite"
)

const (
	dailyReward   = 500
	dailyCooldown = 24 * time.Hour
	begCooldown   = time.Minute
	workCooldown  = 10 * time.Minute
)

type Ledger interface {
	Balance(ctx context.Context, userID int64) (int64, error)
	Deposit(ctx context.Context, userID int64, name string, amount int64) (int64, error)
	Withdraw(ctx context.Context, userID, amount int64) (int64, error)
	Transfer(ctx context.Context, from, to int64, toName string, amount int64) error
	SetName(ctx context.Context, userID int64, name string) error
	Leaderboard(ctx context.Context, limit int) ([]model.Account, error)
	Cooldown(ctx context.Context, userID int64, action string) (time.Time, bool, error)
	SetCooldown(ctx context.Context, userID int64, action string, at time.Time) error
}

type EconomyUsecaseDeps struct {
	Ledger Ledger
}

// EconomyUsecase implements the coin commands on top of the ledger.
// Every method returns the user-visible reply; errors are reserved for
// storage failures, which the caller turns into the server-error text.
type EconomyUsecase struct {
	EconomyUsecaseDeps
	now func() time.Time
}

func NewEconomyUsecase(deps EconomyUsecaseDeps) *EconomyUsecase {
	return &EconomyUsecase{
		EconomyUsecaseDeps: deps,
		now:                time.Now,
	}
}

func (e *EconomyUsecase) WalletReport(ctx context.Context, userID int64, name string) (string, error) {
	if err := e.Ledger.SetName(ctx, userID, name); err != nil {
		return "", err
	}
	balance, err := e.Ledger.Balance(ctx, userID)
	if err != nil {
		return "", err
	}
	return textWalletFormat.DefaultFormat(name, balance), nil
}

func (e *EconomyUsecase) Daily(ctx context.Context, userID int64, name string) (string, error) {
	last, ok, err := e.Ledger.Cooldown(ctx, userID, "daily")
	if err != nil {
		return "", err
	}
	if ok && e.now().Sub(last) < dailyCooldown {
		remaining := dailyCooldown - e.now().Sub(last)
		hours := int(remaining.Hours())
		minutes := int(remaining.Minutes()) % 60
		return textDailyWaitFormat.DefaultFormat(hours, minutes), nil
	}
	if _, err = e.Ledger.Deposit(ctx, userID, name, dailyReward); err != nil {
		return "", err
	}
	if err = e.Ledger.SetCooldown(ctx, userID, "daily", e.now()); err != nil {
		return "", err
	}
	return textDailyClaimedFormat.DefaultFormat(dailyReward), nil
}

func (e *EconomyUsecase) Beg(ctx context.Context, userID int64, name string) (string, error) {
	last, ok, err := e.Ledger.Cooldown(ctx, userID, "beg")
	if err != nil {
		return "", err
	}
	if ok && e.now().Sub(last) < begCooldown {
		remaining := int((begCooldown - e.now().Sub(last)).Seconds())
		return textBegWaitFormat.DefaultFormat(remaining), nil
	}
	if err = e.Ledger.SetCooldown(ctx, userID, "beg", e.now()); err != nil {
		return "", err
	}

	if rand.Float64() >= 0.7 {
		replies := []string{
			"Get a job! 😤",
			"No coins for you today. ❌",
			"Someone threw a shoe at you instead. 👞",
			"Iris just stared at you awkwardly... 👀",
		}
		return replies[rand.Intn(len(replies))], nil
	}

	amount := int64(10 + rand.Intn(41))
	if _, err = e.Ledger.Deposit(ctx, userID, name, amount); err != nil {
		return "", err
	}
	replies := []string{
		"Here, take %d 🌸. Don't spend it all in one place! 😒",
		"A kind stranger gave you %d 🌸! 🎉",
		"You found %d 🌸 on the floor. Lucky! 🍀",
		"Iris felt sorry for you and gave you %d 🌸. 🥺",
	}
	return fmt.Sprintf(replies[rand.Intn(len(replies))], amount), nil
}

func (e *EconomyUsecase) Work(ctx context.Context, userID int64, name string) (string, error) {
	last, ok, err := e.Ledger.Cooldown(ctx, userID, "work")
	if err != nil {
		return "", err
	}
	if ok && e.now().Sub(last) < workCooldown {
		remaining := int((workCooldown - e.now().Sub(last)).Seconds())
		return textWorkWaitFormat.DefaultFormat(remaining/60, remaining%60), nil
	}

	jobs := []struct {
		text     string
		min, max int64
	}{
		{"👩‍🍳 You worked as a chef and earned", 100, 300},
		{"🎨 You painted a portrait and earned", 80, 250},
		{"💻 You did some freelance coding and earned", 150, 400},
		{"📦 You delivered packages and earned", 60, 180},
		{"🎸 You busked on the street and earned", 30, 350},
		{"📸 You took photos for events and earned", 90, 280},
		{"🐕 You walked some dogs and earned", 50, 150},
	}
	job := jobs[rand.Intn(len(jobs))]
	amount := job.min + rand.Int63n(job.max-job.min+1)

	if _, err = e.Ledger.Deposit(ctx, userID, name, amount); err != nil {
		return "", err
	}
	if err = e.Ledger.SetCooldown(ctx, userID, "work", e.now()); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %d 🌸! 💪", job.text, amount), nil
}

func (e *EconomyUsecase) Gamble(ctx context.Context, userID int64, name, betArg string) (string, error) {
	amount, reply, err := e.parseBet(ctx, userID, betArg, textGambleUsage.Default)
	if err != nil || reply != "" {
		return reply, err
	}

	if rand.Float64() < 0.45 {
		newBalance, err := e.Ledger.Deposit(ctx, userID, name, amount)
		if err != nil {
			return "", err
		}
		return textGambleWinFormat.DefaultFormat(amount, newBalance), nil
	}
	newBalance, err := e.Ledger.Withdraw(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, sqlite.ErrInsufficientFunds) {
			balance, _ := e.Ledger.Balance(ctx, userID)
			return textNotEnoughFormat.DefaultFormat(balance), nil
		}
		return "", err
	}
	return textGambleLossFormat.DefaultFormat(amount, newBalance), nil
}

func (e *EconomyUsecase) Slots(ctx context.Context, userID int64, name, betArg string) (string, error) {
	amount, reply, err := e.parseBet(ctx, userID, betArg, textSlotsUsage.Default)
	if err != nil || reply != "" {
		return reply, err
	}

	symbols := []string{"🍒", "🍋", "🍊", "🍇", "💎", "7️⃣", "🌸"}
	reel1 := symbols[rand.Intn(len(symbols))]
	reel2 := symbols[rand.Intn(len(symbols))]
	reel3 := symbols[rand.Intn(len(symbols))]
	display := fmt.Sprintf("║ %s │ %s │ %s ║", reel1, reel2, reel3)

	switch {
	case reel1 == reel2 && reel2 == reel3:
		multipliers := map[string]int64{"7️⃣": 10, "💎": 7, "🌸": 5, "🍇": 4, "🍊": 3, "🍋": 2, "🍒": 2}
		winnings := amount * multipliers[reel1]
		newBalance, err := e.Ledger.Deposit(ctx, userID, name, winnings)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🎰 JACKPOT!!! 🎉\n%s\n\n%s x3!\nWon: %d 🌸\nBalance: %d 🌸", display, reel1, winnings, newBalance), nil
	case reel1 == reel2 || reel2 == reel3 || reel1 == reel3:
		winnings := amount / 2
		newBalance, err := e.Ledger.Deposit(ctx, userID, name, winnings)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("🎰 Two match! 🎉\n%s\n\nWon: %d 🌸\nBalance: %d 🌸", display, winnings, newBalance), nil
	default:
		newBalance, err := e.Ledger.Withdraw(ctx, userID, amount)
		if err != nil {
			if errors.Is(err, sqlite.ErrInsufficientFunds) {
				balance, _ := e.Ledger.Balance(ctx, userID)
				return textNotEnoughFormat.DefaultFormat(balance), nil
			}
			return "", err
		}
		return fmt.Sprintf("🎰 No match... 😢\n%s\n\nLost: %d 🌸\nBalance: %d 🌸", display, amount, newBalance), nil
	}
}

func (e *EconomyUsecase) Pay(
	ctx context.Context, fromID int64, fromName string, toID int64, toName, amountArg string,
) (string, error) {
	amount, err := strconv.ParseInt(amountArg, 10, 64)
	if err != nil {
		return textInvalidAmount.Default, nil
	}
	if amount <= 0 {
		return textNonPositiveBet.Default, nil
	}
	if fromID == toID {
		return textPaySelf.Default, nil
	}
	if err = e.Ledger.Transfer(ctx, fromID, toID, toName, amount); err != nil {
		if errors.Is(err, sqlite.ErrInsufficientFunds) {
			balance, _ := e.Ledger.Balance(ctx, fromID)
			return textNotEnoughFormat.DefaultFormat(balance), nil
		}
		return "", err
	}
	return textPayDoneFormat.DefaultFormat(fromName, amount, toName), nil
}

func (e *EconomyUsecase) Rich(ctx context.Context) (string, error) {
	accounts, err := e.Ledger.Leaderboard(ctx, 10)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return textNobodyRich.Default, nil
	}
	result := strings.Builder{}
	result.WriteString("🏆 Richest Users 🏆\n\n")
	for i, account := range accounts {
		name := account.Name
		if name == "" {
			name = fmt.Sprintf("User %d", account.TelegramID)
		}
		result.WriteString(fmt.Sprintf("%d. %s: %d 🌸\n", i+1, name, account.Balance))
	}
	return result.String(), nil
}

// parseBet validates the bet argument against the user's balance.
// A non-empty reply means validation failed and should be sent as-is.
func (e *EconomyUsecase) parseBet(
	ctx context.Context, userID int64, betArg, usage string,
) (int64, string, error) {
	if betArg == "" {
		return 0, usage, nil
	}
	balance, err := e.Ledger.Balance(ctx, userID)
	if err != nil {
		return 0, "", err
	}

	var amount int64
	if strings.EqualFold(betArg, "all") {
		amount = balance
	} else {
		amount, err = strconv.ParseInt(betArg, 10, 64)
		if err != nil {
			return 0, textInvalidAmount.Default, nil
		}
	}
	if amount <= 0 {
		return 0, textNonPositiveBet.Default, nil
	}
	if amount > balance {
		return 0, textNotEnoughFormat.DefaultFormat(balance), nil
	}
	return amount, "", nil
}
