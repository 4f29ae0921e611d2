package model

type MessageSource string

const (
	MessageSourceUser      = MessageSource("user")
	MessageSourceAssistant = MessageSource("assistant")
)

// Message is one entry of a chat's conversation window. SenderName is
// empty for assistant messages.
type Message struct {
	Source     MessageSource
	SenderName string
	Body       string
}
