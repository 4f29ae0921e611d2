package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pranesh-rpo/IrisChat/config"
	"github.com/pranesh-rpo/IrisChat/internal/model"
)

type fakeModerationStorage struct {
	warns   map[int64]int
	filters []model.Filter
	muted   map[int64]time.Time
}

func newFakeModerationStorage() *fakeModerationStorage {
	return &fakeModerationStorage{
		warns: make(map[int64]int),
		muted: make(map[int64]time.Time),
	}
}

func (f *fakeModerationStorage) AddWarn(_ context.Context, _ int64, userID int64, _ string) (int, error) {
	f.warns[userID]++
	return f.warns[userID], nil
}

func (f *fakeModerationStorage) ResetWarns(_ context.Context, _ int64, userID int64) error {
	delete(f.warns, userID)
	return nil
}

func (f *fakeModerationStorage) SetMute(_ context.Context, _ int64, userID int64, until time.Time) error {
	f.muted[userID] = until
	return nil
}

func (f *fakeModerationStorage) ClearMute(_ context.Context, _ int64, userID int64) error {
	delete(f.muted, userID)
	return nil
}

func (f *fakeModerationStorage) AddFilter(_ context.Context, chatID int64, keyword string, isRegex bool) error {
	f.filters = append(f.filters, model.Filter{ChatID: chatID, Keyword: keyword, IsRegex: isRegex})
	return nil
}

func (f *fakeModerationStorage) Filters(_ context.Context, _ int64) ([]model.Filter, error) {
	return f.filters, nil
}

func newTestModeration(storage ModerationStorage) *ModerationUsecase {
	return NewModerationUsecase(
		ModerationUsecaseDeps{Storage: storage},
		config.Moderation{WarnLimit: 3, BanOnLimit: true},
	)
}

func TestModeration_WarnCountsTowardLimit(t *testing.T) {
	ctx := context.Background()
	storage := newFakeModerationStorage()
	moderation := newTestModeration(storage)

	result, err := moderation.Warn(ctx, 1, 10, []string{"s"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, 3, result.Limit)
	require.False(t, result.BanNow)

	_, err = moderation.Warn(ctx, 1, 10, nil)
	require.NoError(t, err)

	result, err = moderation.Warn(ctx, 1, 10, []string{"being", "rude"})
	require.NoError(t, err)
	require.Equal(t, 3, result.Count)
	require.True(t, result.BanNow)

	// Warns reset after the ban fires.
	require.Zero(t, storage.warns[10])
}

func TestModeration_WarnReasonPresets(t *testing.T) {
	moderation := newTestModeration(newFakeModerationStorage())

	require.Equal(t, "Spamming/Flood", moderation.WarnReason([]string{"s"}))
	require.Equal(t, "Advertising/Links", moderation.WarnReason([]string{"A"}))
	require.Equal(t, "posting spoilers", moderation.WarnReason([]string{"posting", "spoilers"}))
	require.Equal(t, "No reason provided.", moderation.WarnReason(nil))
}

func TestModeration_AddFilterValidatesRegex(t *testing.T) {
	ctx := context.Background()
	moderation := newTestModeration(newFakeModerationStorage())

	keyword, err := moderation.AddFilter(ctx, 1, "badword")
	require.NoError(t, err)
	require.Equal(t, "badword", keyword)

	keyword, err = moderation.AddFilter(ctx, 1, `regex:https?://\S+`)
	require.NoError(t, err)
	require.Equal(t, `https?://\S+`, keyword)

	_, err = moderation.AddFilter(ctx, 1, "regex:[unclosed")
	require.ErrorIs(t, err, ErrInvalidFilter)

	_, err = moderation.AddFilter(ctx, 1, "regex:")
	require.ErrorIs(t, err, ErrInvalidFilter)
}

func TestModeration_MatchesFilter(t *testing.T) {
	ctx := context.Background()
	storage := newFakeModerationStorage()
	moderation := newTestModeration(storage)

	_, err := moderation.AddFilter(ctx, 1, "badword")
	require.NoError(t, err)
	_, err = moderation.AddFilter(ctx, 1, `regex:https?://\S+`)
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "literal match", text: "that is a badword here", want: true},
		{name: "literal is case-insensitive", text: "BADWORD!!", want: true},
		{name: "regex match", text: "check https://spam.example out", want: true},
		{name: "clean text", text: "totally fine message", want: false},
	}
	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				got, err := moderation.MatchesFilter(ctx, 1, tt.text)
				require.NoError(t, err)
				require.Equal(t, tt.want, got)
			},
		)
	}
}

func TestParseMuteDuration(t *testing.T) {
	tests := []struct {
		arg  string
		want time.Duration
	}{
		{arg: "", want: time.Hour},
		{arg: "10m", want: 10 * time.Minute},
		{arg: "2h", want: 2 * time.Hour},
		{arg: "1d", want: 24 * time.Hour},
		{arg: "45", want: 45 * time.Minute},
		{arg: "garbage", want: time.Hour},
		{arg: "-5m", want: time.Hour},
	}
	for _, tt := range tests {
		t.Run(
			tt.arg, func(t *testing.T) {
				require.Equal(t, tt.want, ParseMuteDuration(tt.arg))
			},
		)
	}
}
