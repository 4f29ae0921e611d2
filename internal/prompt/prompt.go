package prompt

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/pranesh-rpo/IrisChat/internal/llm"
	"github.com/pranesh-rpo/IrisChat/internal/logger"
	"github.com/pranesh-rpo/IrisChat/internal/model"
)

const personaGroup = `You are Iris, a cute and friendly girl in a group chat.
Rules:
- Users' names appear in [brackets] before messages. Address them by name WITHOUT brackets.
- Be cheerful, warm, and fun. Keep replies short and sweet.
- Use 1-2 cute emojis per message.
- NEVER start with an "Iris:" prefix.`

const personaDM = `You are Iris, a cute and sweet girl chatting in DMs.
Rules:
- The user's name is in [brackets] before their message. Address them by name WITHOUT brackets.
- Be sweet, warm, and playful. Keep replies short and casual like real texting.
- Use 1-2 cute emojis per message.
- NEVER start with an "Iris:" prefix.`

const roleplayFormat = `SYSTEM INSTRUCTION:
You are currently roleplaying.
SCENARIO: %s

CRITICAL RULES:
1. Stay in character at all times.
2. You are ONLY the character described above.
3. Do NOT start your message with your name or any prefix. Just speak directly.`

// System picks the system instruction for a chat based on its mode.
func System(settings model.ChatSettings, private bool) string {
	if settings.Mode == model.ChatModeRoleplay && settings.Scenario != "" {
		return fmt.Sprintf(roleplayFormat, settings.Scenario)
	}
	if private {
		return personaDM
	}
	return personaGroup
}

// Builder turns a conversation window into a provider prompt, trimming
// the oldest entries until the window fits the token budget.
type Builder struct {
	tokenBudget int

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func NewBuilder(tokenBudget int) *Builder {
	return &Builder{
		tokenBudget: tokenBudget,
	}
}

func (b *Builder) Build(system string, history []model.Message, userText, userName string) llm.Prompt {
	messages := make([]llm.ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, toChatMessage(msg))
	}
	messages = append(
		messages, toChatMessage(
			model.Message{
				Source:     model.MessageSourceUser,
				SenderName: userName,
				Body:       userText,
			},
		),
	)

	// Never trim away the triggering message itself.
	for len(messages) > 1 && b.countTokens(messages) > b.tokenBudget {
		messages = messages[1:]
		logger.L.Debug("prompt trimmed to token budget")
	}
	return llm.Prompt{
		System:   system,
		Messages: messages,
	}
}

func toChatMessage(msg model.Message) llm.ChatMessage {
	if msg.Source == model.MessageSourceAssistant {
		return llm.ChatMessage{
			Role:    llm.RoleAssistant,
			Content: msg.Body,
		}
	}
	content := msg.Body
	if msg.SenderName != "" {
		content = fmt.Sprintf("[%s]: %s", msg.SenderName, msg.Body)
	}
	return llm.ChatMessage{
		Role:    llm.RoleUser,
		Content: content,
	}
}

func (b *Builder) countTokens(messages []llm.ChatMessage) int {
	b.once.Do(
		func() {
			enc, err := tiktoken.GetEncoding("cl100k_base")
			if err != nil {
				logger.L.Warn("failed to load token encoding, falling back to estimate", "error", err)
				return
			}
			b.enc = enc
		},
	)

	total := 0
	for _, m := range messages {
		if b.enc != nil {
			// Small per-message overhead for role framing.
			total += len(b.enc.Encode(m.Content, nil, nil)) + 4
			continue
		}
		total += len(m.Content)/4 + 4
	}
	return total
}
