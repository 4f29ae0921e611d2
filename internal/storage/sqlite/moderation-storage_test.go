package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestModeration_WarnsAccumulatePerChat(t *testing.T) {
	ctx := context.Background()
	moderation := NewModerationStorage(openTestDB(t))

	count, err := moderation.AddWarn(ctx, 1, 10, "spam")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = moderation.AddWarn(ctx, 1, 10, "ads")
	require.NoError(t, err)
	require.Equal(t, 2, count)

	// Same user in another chat starts fresh.
	count, err = moderation.AddWarn(ctx, 2, 10, "spam")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, moderation.ResetWarns(ctx, 1, 10))
	count, err = moderation.WarnCount(ctx, 1, 10)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestModeration_MuteRoundTrip(t *testing.T) {
	ctx := context.Background()
	moderation := NewModerationStorage(openTestDB(t))

	until := time.Now().Add(time.Hour)
	require.NoError(t, moderation.SetMute(ctx, 1, 10, until))
	require.NoError(t, moderation.SetMute(ctx, 1, 10, until.Add(time.Hour)))
	require.NoError(t, moderation.ClearMute(ctx, 1, 10))
}

func TestModeration_Filters(t *testing.T) {
	ctx := context.Background()
	moderation := NewModerationStorage(openTestDB(t))

	require.NoError(t, moderation.AddFilter(ctx, 1, "badword", false))
	require.NoError(t, moderation.AddFilter(ctx, 1, `https?://\S+`, true))
	// Re-adding the same keyword upgrades in place instead of duplicating.
	require.NoError(t, moderation.AddFilter(ctx, 1, "badword", true))

	filters, err := moderation.Filters(ctx, 1)
	require.NoError(t, err)
	require.Len(t, filters, 2)
	require.Equal(t, "badword", filters[0].Keyword)
	require.True(t, filters[0].IsRegex)
	require.Equal(t, `https?://\S+`, filters[1].Keyword)
	require.True(t, filters[1].IsRegex)

	other, err := moderation.Filters(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, other)
}
