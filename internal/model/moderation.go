package model

import "time"

type Warn struct {
	ChatID    int64
	UserID    int64
	Reason    string
	CreatedAt time.Time
}

// Filter is a per-chat blocked keyword. Keyword holds a regular
// expression when IsRegex is set.
type Filter struct {
	ID      int64
	ChatID  int64
	Keyword string
	IsRegex bool
}
