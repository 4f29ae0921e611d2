package model

type ChatMode string

const (
	ChatModeNormal   = ChatMode("normal")
	ChatModeRoleplay = ChatMode("roleplay")
)

func ParseChatMode(s string) ChatMode {
	switch s {
	case "roleplay":
		return ChatModeRoleplay
	default:
		return ChatModeNormal
	}
}

// ChatSettings holds the per-chat persona state. Scenario is only set
// while Mode is roleplay.
type ChatSettings struct {
	ChatID   int64
	Mode     ChatMode
	Scenario string
}
