package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pranesh-rpo/IrisChat/internal/llm"
	"github.com/pranesh-rpo/IrisChat/internal/model"
)

func TestSystem(t *testing.T) {
	group := System(model.ChatSettings{Mode: model.ChatModeNormal}, false)
	require.Contains(t, group, "group chat")

	dm := System(model.ChatSettings{Mode: model.ChatModeNormal}, true)
	require.Contains(t, dm, "DMs")

	roleplay := System(
		model.ChatSettings{Mode: model.ChatModeRoleplay, Scenario: "strict math teacher"}, false,
	)
	require.Contains(t, roleplay, "strict math teacher")

	// Roleplay mode without a scenario falls back to the persona.
	empty := System(model.ChatSettings{Mode: model.ChatModeRoleplay}, false)
	require.Contains(t, empty, "group chat")
}

func TestBuilder_FormatsSpeakerNames(t *testing.T) {
	b := NewBuilder(100000)

	history := []model.Message{
		{Source: model.MessageSourceUser, SenderName: "Alice", Body: "hi iris"},
		{Source: model.MessageSourceAssistant, Body: "hey Alice! 💖"},
	}
	p := b.Build("system", history, "how are you?", "Bob")

	require.Equal(t, "system", p.System)
	require.Len(t, p.Messages, 3)
	require.Equal(t, llm.RoleUser, p.Messages[0].Role)
	require.Equal(t, "[Alice]: hi iris", p.Messages[0].Content)
	require.Equal(t, llm.RoleAssistant, p.Messages[1].Role)
	require.Equal(t, "hey Alice! 💖", p.Messages[1].Content)
	require.Equal(t, "[Bob]: how are you?", p.Messages[2].Content)
}

func TestBuilder_TrimsOldestToBudget(t *testing.T) {
	b := NewBuilder(30)

	long := strings.Repeat("blah ", 40)
	history := []model.Message{
		{Source: model.MessageSourceUser, SenderName: "Alice", Body: long},
		{Source: model.MessageSourceAssistant, Body: long},
		{Source: model.MessageSourceUser, SenderName: "Alice", Body: long},
	}
	p := b.Build("system", history, "hello", "Bob")

	// Everything but the triggering message blows the budget.
	require.Len(t, p.Messages, 1)
	require.Equal(t, "[Bob]: hello", p.Messages[0].Content)
}

func TestBuilder_NeverTrimsTriggeringMessage(t *testing.T) {
	b := NewBuilder(1)

	p := b.Build("system", nil, strings.Repeat("word ", 200), "Bob")
	require.Len(t, p.Messages, 1)
	require.Contains(t, p.Messages[0].Content, "word")
}

func TestBuilder_KeepsAllWithinBudget(t *testing.T) {
	b := NewBuilder(100000)

	history := make([]model.Message, 0, 20)
	for i := 0; i < 10; i++ {
		history = append(
			history,
			model.Message{Source: model.MessageSourceUser, SenderName: "Alice", Body: "ping"},
			model.Message{Source: model.MessageSourceAssistant, Body: "pong"},
		)
	}
	p := b.Build("system", history, "hello", "Bob")
	require.Len(t, p.Messages, 21)
}
