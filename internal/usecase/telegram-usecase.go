package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"

	"github.com/pranesh-rpo/IrisChat/config"
	"github.com/pranesh-rpo/IrisChat/internal/logger"
)

const (
	commandIris     = "iris"
	commandStart    = "start"
	commandReset    = "reset"
	commandHelp     = "help"
	commandModHelp  = "mhelp"
	commandDonate   = "donate"
	commandRoleplay = "roleplay"
	commandNormal   = "normal"
	commandBalance  = "balance"
	commandBal      = "bal"
	commandDaily    = "daily"
	commandBeg      = "beg"
	commandWork     = "work"
	commandGamble   = "gamble"
	commandBet      = "bet"
	commandSlots    = "slots"
	commandPay      = "pay"
	commandRich     = "rich"
	commandTruth    = "truth"
	commandDare     = "dare"
	commandTrivia   = "trivia"
	commandRoast    = "roast"
	command8Ball    = "8ball"
	commandShip     = "ship"
	commandRate     = "rate"
	commandWarn     = "warn"
	commandMute     = "mute"
	commandUnmute   = "unmute"
	commandBan      = "ban"
	commandKick     = "kick"
	commandFilter   = "filter"
	commandFilters  = "filters"

	// chatQueueSize bounds each per-chat mailbox. Updates past the cap
	// are dropped with a warning instead of blocking the poll loop.
	chatQueueSize = 64
)

const helpText = `💖 Hi, I'm Iris! 💖

💬 Chatting
!iris <text> - talk to me (or mention me / reply to me!)
!reset - wipe my memory
!roleplay <scenario> - roleplay mode
!normal - back to normal me

🌸 Economy
!balance - your wallet
!daily - daily reward
!beg - beg for coins
!work - work for coins
!gamble <amount> - double or nothing
!slots <amount> - slot machine
!pay <amount> - reply to someone to pay them
!rich - leaderboard

🎮 Games & Fun
!truth / !dare / !trivia
!roast - reply to someone to roast them
!8ball <question>
!ship <name1> <name2>
!rate <thing>

!donate - support my server bills 💖
!mhelp - admin commands`

const modHelpText = `🛡️ Admin Commands 🛡️

!warn - reply to warn (reasons: s/a/n/u or custom)
!mute [10m|2h|1d] - reply to mute
!unmute - reply to unmute
!ban - reply to ban
!kick - reply to kick
!filter <word> - block a word
!filter regex:<pattern> - block by regex
!filters - list filters`

// Bot is the slice of api.BotAPI the usecase needs, kept narrow so
// tests can swap in a recorder.
type Bot interface {
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
	MakeRequest(endpoint string, params api.Params) (*api.APIResponse, error)
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
	GetChatAdministrators(config api.ChatAdministratorsConfig) ([]api.ChatMember, error)
}

type TelegramUsecaseDeps struct {
	Bot        Bot
	AI         *AIUsecase
	Economy    *EconomyUsecase
	Moderation *ModerationUsecase
	Fun        *FunUsecase
}

type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg     config.Telegram
	payment config.Payment
	botName string
	botID   int64

	mu         sync.Mutex
	chatQueues map[int64]chan api.Update
}

func NewTelegramUsecase(
	cfg config.Telegram, payment config.Payment, botName string, botID int64, deps TelegramUsecaseDeps,
) (*TelegramUsecase, error) {
	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{Command: commandIris, Description: "Talk to Iris"},
				{Command: commandReset, Description: "Wipe Iris's memory"},
				{Command: commandHelp, Description: "Show all commands"},
				{Command: commandBalance, Description: "Show your wallet"},
				{Command: commandDaily, Description: "Claim the daily reward"},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		payment:             payment,
		botName:             botName,
		botID:               botID,
		chatQueues:          make(map[int64]chan api.Update),
	}, nil
}

// Run consumes the long-poll update stream, fanning each update out to
// a per-chat worker so replies within a chat stay in arrival order
// while chats never block each other.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = 60

	updates := t.Bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			t.dispatch(ctx, update)
		}
	}
}

func (t *TelegramUsecase) dispatch(ctx context.Context, update api.Update) {
	chatID := update.Message.Chat.ID

	t.mu.Lock()
	queue, ok := t.chatQueues[chatID]
	if !ok {
		queue = make(chan api.Update, chatQueueSize)
		t.chatQueues[chatID] = queue
		go t.chatWorker(ctx, chatID, queue)
	}
	t.mu.Unlock()

	select {
	case queue <- update:
	default:
		logger.L.Warn("chat queue full, dropping update", "chat_id", chatID)
	}
}

func (t *TelegramUsecase) chatWorker(ctx context.Context, chatID int64, queue chan api.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update := <-queue:
			t.handleUpdateSafely(ctx, chatID, update)
		}
	}
}

func (t *TelegramUsecase) handleUpdateSafely(ctx context.Context, chatID int64, update api.Update) {
	// Correlates the log lines of one update across the pipeline.
	traceID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("panic while handling update", "chat_id", chatID, "trace_id", traceID, "panic", r)
		}
	}()
	if err := t.handleMessage(ctx, update); err != nil {
		logger.L.Error("failed to handle message", "chat_id", chatID, "trace_id", traceID, "error", err)
	}
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, update api.Update) error {
	msg := update.Message
	if msg.Text == "" {
		return nil
	}

	if !msg.Chat.IsPrivate() {
		handled, err := t.enforceFilters(ctx, msg)
		if err != nil {
			return fmt.Errorf("failed to enforce filters: %w", err)
		}
		if handled {
			return nil
		}
	}

	if command, args, ok := t.parseCommand(msg.Text); ok {
		return t.handleCommand(ctx, msg, command, args)
	}

	if t.shouldReply(msg) {
		t.replyWithAI(ctx, msg, msg.Text, senderName(msg))
	}
	return nil
}

// enforceFilters deletes messages from non-admins that trip a chat
// filter. Returns true when the message was removed.
func (t *TelegramUsecase) enforceFilters(ctx context.Context, msg *api.Message) (bool, error) {
	matched, err := t.Moderation.MatchesFilter(ctx, msg.Chat.ID, msg.Text)
	if err != nil || !matched {
		return false, err
	}
	if t.isAdmin(msg.Chat.ID, msg.From.ID) {
		return false, nil
	}
	if _, err = t.Bot.Request(api.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		logger.L.Warn("failed to delete filtered message", "chat_id", msg.Chat.ID, "error", err)
	}
	t.send(msg.Chat.ID, textFilteredFormat.DefaultFormat(senderName(msg)))
	return true, nil
}

// parseCommand accepts both "!cmd" and "/cmd" forms and strips the
// "@botname" suffix Telegram appends in groups.
func (t *TelegramUsecase) parseCommand(text string) (string, []string, bool) {
	if len(text) < 2 || (text[0] != '!' && text[0] != '/') {
		return "", nil, false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	command := strings.ToLower(fields[0])
	if at := strings.Index(command, "@"); at >= 0 {
		if !strings.EqualFold(command[at+1:], t.botName) {
			return "", nil, false
		}
		command = command[:at]
	}
	return command, fields[1:], true
}

func (t *TelegramUsecase) handleCommand(ctx context.Context, msg *api.Message, command string, args []string) error {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	name := senderName(msg)

	switch command {
	case commandIris, commandStart:
		if len(args) > 0 {
			t.replyWithAI(ctx, msg, strings.Join(args, " "), name)
			return nil
		}
		t.send(chatID, textGreeting.Default)
	case commandReset:
		if err := t.AI.Reset(ctx, chatID); err != nil {
			t.send(chatID, textServerError.Default)
			return fmt.Errorf("failed to reset history: %w", err)
		}
		t.send(chatID, textMemoryWiped.Default)
	case commandHelp:
		t.send(chatID, helpText)
	case commandModHelp:
		t.send(chatID, modHelpText)
	case commandDonate:
		if t.payment.UPIID == "" {
			t.send(chatID, textDonateUnset.Default)
			return nil
		}
		t.send(chatID, textDonateFormat.DefaultFormat(t.payment.UPIID))
	case commandRoleplay:
		if len(args) == 0 {
			t.send(chatID, textRoleplayUsage.Default)
			return nil
		}
		scenario := strings.Join(args, " ")
		if err := t.AI.SetRoleplay(ctx, chatID, scenario); err != nil {
			t.send(chatID, textServerError.Default)
			return fmt.Errorf("failed to set roleplay mode: %w", err)
		}
		t.send(chatID, textRoleplayFormat.DefaultFormat(scenario))
	case commandNormal:
		if err := t.AI.SetNormal(ctx, chatID); err != nil {
			t.send(chatID, textServerError.Default)
			return fmt.Errorf("failed to set normal mode: %w", err)
		}
		t.send(chatID, textBackToNormal.Default)

	case commandBalance, commandBal:
		reply, err := t.Economy.WalletReport(ctx, userID, name)
		return t.sendEconomyReply(chatID, reply, err)
	case commandDaily:
		reply, err := t.Economy.Daily(ctx, userID, name)
		return t.sendEconomyReply(chatID, reply, err)
	case commandBeg:
		reply, err := t.Economy.Beg(ctx, userID, name)
		return t.sendEconomyReply(chatID, reply, err)
	case commandWork:
		reply, err := t.Economy.Work(ctx, userID, name)
		return t.sendEconomyReply(chatID, reply, err)
	case commandGamble, commandBet:
		reply, err := t.Economy.Gamble(ctx, userID, name, firstArg(args))
		return t.sendEconomyReply(chatID, reply, err)
	case commandSlots:
		reply, err := t.Economy.Slots(ctx, userID, name, firstArg(args))
		return t.sendEconomyReply(chatID, reply, err)
	case commandPay:
		if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil || len(args) == 0 {
			t.send(chatID, textPayUsage.Default)
			return nil
		}
		to := msg.ReplyToMessage.From
		reply, err := t.Economy.Pay(ctx, userID, name, to.ID, userDisplayName(to), args[0])
		return t.sendEconomyReply(chatID, reply, err)
	case commandRich:
		reply, err := t.Economy.Rich(ctx)
		return t.sendEconomyReply(chatID, reply, err)

	case commandTruth:
		t.replyWithAI(ctx, msg, "Give me one spicy truth question for our group game. Just the question!", "GameMaster")
	case commandDare:
		t.replyWithAI(ctx, msg, "Give me one fun dare for our group game. Just the dare!", "GameMaster")
	case commandTrivia:
		t.replyWithAI(ctx, msg, "Ask me one trivia question with four options A-D. Reveal the answer on a separate last line.", "GameMaster")
	case commandRoast:
		target := name
		if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
			target = userDisplayName(msg.ReplyToMessage.From)
		}
		t.replyWithAI(ctx, msg, fmt.Sprintf("Roast %s playfully in two sentences, keep it friendly!", target), "GameMaster")
	case command8Ball:
		t.send(chatID, t.Fun.EightBall(strings.Join(args, " ")))
	case commandShip:
		if len(args) < 2 {
			t.send(chatID, "Usage: !ship <name1> <name2> 💘")
			return nil
		}
		t.send(chatID, t.Fun.Ship(args[0], args[1]))
	case commandRate:
		if len(args) == 0 {
			t.send(chatID, "Usage: !rate <thing> 📊")
			return nil
		}
		t.send(chatID, t.Fun.Rate(strings.Join(args, " ")))

	case commandWarn, commandMute, commandUnmute, commandBan, commandKick, commandFilter, commandFilters:
		return t.handleModCommand(ctx, msg, command, args)
	}
	// Unknown commands stay silent: in groups they are usually meant
	// for another bot.
	return nil
}

func (t *TelegramUsecase) handleModCommand(ctx context.Context, msg *api.Message, command string, args []string) error {
	chatID := msg.Chat.ID
	if !msg.Chat.IsPrivate() && !t.isAdmin(chatID, msg.From.ID) {
		t.send(chatID, textAdminsOnly.Default)
		return nil
	}

	target := msg.ReplyToMessage
	switch command {
	case commandWarn:
		if target == nil || target.From == nil {
			t.send(chatID, textWarnTarget.Default)
			return nil
		}
		reason := t.Moderation.WarnReason(args)
		result, err := t.Moderation.Warn(ctx, chatID, target.From.ID, args)
		if err != nil {
			t.send(chatID, textServerError.Default)
			return fmt.Errorf("failed to warn user: %w", err)
		}
		targetName := userDisplayName(target.From)
		if result.BanNow {
			if err = t.banMember(chatID, target.From.ID); err != nil {
				t.send(chatID, textModActionFailure.Default)
				return fmt.Errorf("failed to ban warned user: %w", err)
			}
			t.send(chatID, textWarnBanFormat.DefaultFormat(targetName))
			return nil
		}
		t.send(chatID, textWarnFormat.DefaultFormat(targetName, reason, result.Count, result.Limit))

	case commandMute:
		if target == nil || target.From == nil {
			t.send(chatID, textMuteTarget.Default)
			return nil
		}
		duration := ParseMuteDuration(firstArg(args))
		until := time.Now().Add(duration)
		if err := t.restrictMember(chatID, target.From.ID, until); err != nil {
			t.send(chatID, textModActionFailure.Default)
			return fmt.Errorf("failed to mute user: %w", err)
		}
		if err := t.Moderation.Mute(ctx, chatID, target.From.ID, until); err != nil {
			logger.L.Warn("failed to record mute", "chat_id", chatID, "error", err)
		}
		t.send(chatID, textMuteFormat.DefaultFormat(userDisplayName(target.From), int(duration.Minutes())))

	case commandUnmute:
		if target == nil || target.From == nil {
			t.send(chatID, textMuteTarget.Default)
			return nil
		}
		if err := t.liftRestrictions(chatID, target.From.ID); err != nil {
			t.send(chatID, textModActionFailure.Default)
			return fmt.Errorf("failed to unmute user: %w", err)
		}
		if err := t.Moderation.Unmute(ctx, chatID, target.From.ID); err != nil {
			logger.L.Warn("failed to record unmute", "chat_id", chatID, "error", err)
		}
		t.send(chatID, textUnmuteFormat.DefaultFormat(userDisplayName(target.From)))

	case commandBan:
		if target == nil || target.From == nil {
			t.send(chatID, textWarnTarget.Default)
			return nil
		}
		if err := t.banMember(chatID, target.From.ID); err != nil {
			t.send(chatID, textModActionFailure.Default)
			return fmt.Errorf("failed to ban user: %w", err)
		}
		t.send(chatID, textBanFormat.DefaultFormat(userDisplayName(target.From)))

	case commandKick:
		if target == nil || target.From == nil {
			t.send(chatID, textWarnTarget.Default)
			return nil
		}
		if err := t.kickMember(chatID, target.From.ID); err != nil {
			t.send(chatID, textModActionFailure.Default)
			return fmt.Errorf("failed to kick user: %w", err)
		}
		t.send(chatID, textKickFormat.DefaultFormat(userDisplayName(target.From)))

	case commandFilter:
		if len(args) == 0 {
			t.send(chatID, textFilterUsage.Default)
			return nil
		}
		keyword, err := t.Moderation.AddFilter(ctx, chatID, strings.Join(args, " "))
		if err != nil {
			if err == ErrInvalidFilter {
				t.send(chatID, textFilterBad.Default)
				return nil
			}
			t.send(chatID, textServerError.Default)
			return fmt.Errorf("failed to add filter: %w", err)
		}
		t.send(chatID, textFilterAddFormat.DefaultFormat(keyword))

	case commandFilters:
		filters, err := t.Moderation.Filters(ctx, chatID)
		if err != nil {
			t.send(chatID, textServerError.Default)
			return fmt.Errorf("failed to list filters: %w", err)
		}
		if len(filters) == 0 {
			t.send(chatID, textFilterNone.Default)
			return nil
		}
		result := strings.Builder{}
		result.WriteString("🚫 Active Filters:\n")
		for i, filter := range filters {
			kind := ""
			if filter.IsRegex {
				kind = " (regex)"
			}
			result.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, filter.Keyword, kind))
		}
		t.send(chatID, result.String())
	}
	return nil
}

// shouldReply decides whether an untriggered-looking message still
// deserves a reply: private chats always do, as do replies to the bot,
// @-mentions and messages carrying the trigger keyword.
func (t *TelegramUsecase) shouldReply(msg *api.Message) bool {
	if msg.Chat.IsPrivate() {
		return true
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && msg.ReplyToMessage.From.ID == t.botID {
		return true
	}
	lowered := strings.ToLower(msg.Text)
	if t.botName != "" && strings.Contains(lowered, "@"+strings.ToLower(t.botName)) {
		return true
	}
	if t.cfg.TriggerKeyword != "" && strings.Contains(lowered, strings.ToLower(t.cfg.TriggerKeyword)) {
		return true
	}
	return false
}

func (t *TelegramUsecase) replyWithAI(ctx context.Context, msg *api.Message, text, name string) {
	chatID := msg.Chat.ID

	var reply string
	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			if _, err := t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
				logger.L.Warn("failed to send typing action", "chat_id", chatID, "error", err)
			}
		},
	)
	wg.Go(
		func() {
			reply = t.AI.Reply(ctx, chatID, text, name, msg.Chat.IsPrivate())
		},
	)
	wg.Wait()

	answer := api.NewMessage(chatID, reply)
	if !msg.Chat.IsPrivate() {
		answer.ReplyParameters.MessageID = msg.MessageID
	}
	if _, err := t.Bot.Send(answer); err != nil {
		logger.L.Error("failed to send reply", "chat_id", chatID, "error", err)
	}
}

func (t *TelegramUsecase) sendEconomyReply(chatID int64, reply string, err error) error {
	if err != nil {
		t.send(chatID, textServerError.Default)
		return fmt.Errorf("failed to handle economy command: %w", err)
	}
	t.send(chatID, reply)
	return nil
}

func (t *TelegramUsecase) send(chatID int64, text string) {
	if _, err := t.Bot.Send(api.NewMessage(chatID, text)); err != nil {
		logger.L.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func (t *TelegramUsecase) isAdmin(chatID, userID int64) bool {
	admins, err := t.Bot.GetChatAdministrators(
		api.ChatAdministratorsConfig{
			ChatConfig: api.ChatConfig{ChatID: chatID},
		},
	)
	if err != nil {
		logger.L.Warn("failed to get chat administrators", "chat_id", chatID, "error", err)
		return false
	}
	for _, admin := range admins {
		if admin.User != nil && admin.User.ID == userID {
			return true
		}
	}
	return false
}

func (t *TelegramUsecase) banMember(chatID, userID int64) error {
	_, err := t.Bot.MakeRequest(
		"banChatMember", api.Params{
			"chat_id": fmt.Sprintf("%d", chatID),
			"user_id": fmt.Sprintf("%d", userID),
		},
	)
	return err
}

func (t *TelegramUsecase) kickMember(chatID, userID int64) error {
	if err := t.banMember(chatID, userID); err != nil {
		return err
	}
	_, err := t.Bot.MakeRequest(
		"unbanChatMember", api.Params{
			"chat_id":        fmt.Sprintf("%d", chatID),
			"user_id":        fmt.Sprintf("%d", userID),
			"only_if_banned": "true",
		},
	)
	return err
}

func (t *TelegramUsecase) restrictMember(chatID, userID int64, until time.Time) error {
	_, err := t.Bot.MakeRequest(
		"restrictChatMember", api.Params{
			"chat_id":     fmt.Sprintf("%d", chatID),
			"user_id":     fmt.Sprintf("%d", userID),
			"until_date":  fmt.Sprintf("%d", until.Unix()),
			"permissions": `{"can_send_messages":false,"can_send_other_messages":false,"can_add_web_page_previews":false}`,
		},
	)
	return err
}

func (t *TelegramUsecase) liftRestrictions(chatID, userID int64) error {
	_, err := t.Bot.MakeRequest(
		"restrictChatMember", api.Params{
			"chat_id":     fmt.Sprintf("%d", chatID),
			"user_id":     fmt.Sprintf("%d", userID),
			"permissions": `{"can_send_messages":true,"can_send_audios":true,"can_send_documents":true,"can_send_photos":true,"can_send_videos":true,"can_send_other_messages":true,"can_add_web_page_previews":true}`,
		},
	)
	return err
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func senderName(msg *api.Message) string {
	return userDisplayName(msg.From)
}

func userDisplayName(user *api.User) string {
	if user == nil {
		return "Unknown"
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.UserName != "" {
		return user.UserName
	}
	return fmt.Sprintf("User %d", user.ID)
}
