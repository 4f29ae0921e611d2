package usecase

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pranesh-rpo/IrisChat/config"
	"github.com/pranesh-rpo/IrisChat/internal/model"
)

var ErrInvalidFilter = errors.New("invalid filter pattern")

// warnPresets expand the one-letter reason shorthands admins use.
var warnPresets = map[string]string{
	"s": "Spamming/Flood",
	"a": "Advertising/Links",
	"n": "NSFW/Inappropriate Content",
	"u": "Unkind/Abusive Behavior",
}

type ModerationStorage interface {
	AddWarn(ctx context.Context, chatID, userID int64, reason string) (int, error)
	ResetWarns(ctx context.Context, chatID, userID int64) error
	SetMute(ctx context.Context, chatID, userID int64, until time.Time) error
	ClearMute(ctx context.Context, chatID, userID int64) error
	AddFilter(ctx context.Context, chatID int64, keyword string, isRegex bool) error
	Filters(ctx context.Context, chatID int64) ([]model.Filter, error)
}

type ModerationUsecaseDeps struct {
	Storage ModerationStorage
}

type ModerationUsecase struct {
	ModerationUsecaseDeps
	cfg config.Moderation
}

func NewModerationUsecase(deps ModerationUsecaseDeps, cfg config.Moderation) *ModerationUsecase {
	return &ModerationUsecase{
		ModerationUsecaseDeps: deps,
		cfg:                   cfg,
	}
}

type WarnResult struct {
	Count  int
	Limit  int
	BanNow bool
}

func (m *ModerationUsecase) Warn(ctx context.Context, chatID, userID int64, reasonArgs []string) (WarnResult, error) {
	reason := "No reason provided."
	if len(reasonArgs) > 0 {
		if preset, ok := warnPresets[strings.ToLower(reasonArgs[0])]; ok {
			reason = preset
		} else {
			reason = strings.Join(reasonArgs, " ")
		}
	}
	count, err := m.Storage.AddWarn(ctx, chatID, userID, reason)
	if err != nil {
		return WarnResult{}, err
	}
	result := WarnResult{
		Count:  count,
		Limit:  m.cfg.WarnLimit,
		BanNow: count >= m.cfg.WarnLimit && m.cfg.BanOnLimit,
	}
	if result.BanNow {
		if err = m.Storage.ResetWarns(ctx, chatID, userID); err != nil {
			return WarnResult{}, err
		}
	}
	return result, nil
}

func (m *ModerationUsecase) WarnReason(reasonArgs []string) string {
	if len(reasonArgs) == 0 {
		return "No reason provided."
	}
	if preset, ok := warnPresets[strings.ToLower(reasonArgs[0])]; ok {
		return preset
	}
	return strings.Join(reasonArgs, " ")
}

func (m *ModerationUsecase) Mute(ctx context.Context, chatID, userID int64, until time.Time) error {
	return m.Storage.SetMute(ctx, chatID, userID, until)
}

func (m *ModerationUsecase) Unmute(ctx context.Context, chatID, userID int64) error {
	return m.Storage.ClearMute(ctx, chatID, userID)
}

// AddFilter stores a literal keyword or, with the "regex:" prefix, a
// validated regular expression. Returns the stored pattern.
func (m *ModerationUsecase) AddFilter(ctx context.Context, chatID int64, spec string) (string, error) {
	keyword := spec
	isRegex := false
	if strings.HasPrefix(spec, "regex:") {
		keyword = strings.TrimPrefix(spec, "regex:")
		isRegex = true
		if _, err := regexp.Compile(keyword); err != nil {
			return "", ErrInvalidFilter
		}
	}
	if keyword == "" {
		return "", ErrInvalidFilter
	}
	if err := m.Storage.AddFilter(ctx, chatID, keyword, isRegex); err != nil {
		return "", err
	}
	return keyword, nil
}

func (m *ModerationUsecase) Filters(ctx context.Context, chatID int64) ([]model.Filter, error) {
	return m.Storage.Filters(ctx, chatID)
}

// MatchesFilter reports whether text trips any stored filter for the
// chat. Broken stored regexes are skipped rather than failing the scan.
func (m *ModerationUsecase) MatchesFilter(ctx context.Context, chatID int64, text string) (bool, error) {
	filters, err := m.Storage.Filters(ctx, chatID)
	if err != nil {
		return false, err
	}
	lowered := strings.ToLower(text)
	for _, filter := range filters {
		if filter.IsRegex {
			re, err := regexp.Compile("(?i)" + filter.Keyword)
			if err != nil {
				continue
			}
			if re.MatchString(text) {
				return true, nil
			}
			continue
		}
		if strings.Contains(lowered, strings.ToLower(filter.Keyword)) {
			return true, nil
		}
	}
	return false, nil
}

// ParseMuteDuration understands "10m", "2h", "1d" and bare minutes.
// Anything unparseable falls back to an hour.
func ParseMuteDuration(arg string) time.Duration {
	const fallback = time.Hour
	if arg == "" {
		return fallback
	}
	arg = strings.ToLower(arg)
	unit := time.Minute
	switch {
	case strings.HasSuffix(arg, "m"):
		arg = strings.TrimSuffix(arg, "m")
	case strings.HasSuffix(arg, "h"):
		arg = strings.TrimSuffix(arg, "h")
		unit = time.Hour
	case strings.HasSuffix(arg, "d"):
		arg = strings.TrimSuffix(arg, "d")
		unit = 24 * time.Hour
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * unit
}
