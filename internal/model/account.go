package model

// Account is a ledger row: one Telegram user and their coin balance.
type Account struct {
	TelegramID int64
	Name       string
	Balance    int64
}
