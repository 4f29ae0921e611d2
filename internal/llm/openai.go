package llm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sashabaranov/go-openai"
)

const (
	groqBaseURL       = "https://api.groq.com/openai/v1"
	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// OpenAICompatible talks to any chat-completions endpoint that speaks
// the OpenAI wire format. Groq, OpenRouter and Ollama all do.
type OpenAICompatible struct {
	name        string
	baseURL     string
	apiKeys     []string
	model       string
	temperature float32
}

func NewGroq(apiKeys []string, model string, temperature float32) *OpenAICompatible {
	return &OpenAICompatible{
		name:        "groq",
		baseURL:     groqBaseURL,
		apiKeys:     apiKeys,
		model:       model,
		temperature: temperature,
	}
}

func NewOpenRouter(apiKeys []string, model string, temperature float32) *OpenAICompatible {
	return &OpenAICompatible{
		name:        "openrouter",
		baseURL:     openRouterBaseURL,
		apiKeys:     apiKeys,
		model:       model,
		temperature: temperature,
	}
}

// NewOllama points at a self-hosted runtime's OpenAI-compatible
// endpoint. No credential is needed.
func NewOllama(baseURL, model string, temperature float32) (*OpenAICompatible, error) {
	joined, err := url.JoinPath(baseURL, "/v1")
	if err != nil {
		return nil, fmt.Errorf("failed to build ollama base url: %w", err)
	}
	return &OpenAICompatible{
		name:        "ollama",
		baseURL:     joined,
		model:       model,
		temperature: temperature,
	}, nil
}

func (p *OpenAICompatible) Name() string {
	return p.name
}

func (p *OpenAICompatible) Generate(ctx context.Context, prompt Prompt) (string, error) {
	// A fresh client per request picks a new key from the rotation.
	clientConfig := openai.DefaultConfig(pickKey(p.apiKeys))
	clientConfig.BaseURL = p.baseURL
	c := openai.NewClientWithConfig(clientConfig)

	messages := make([]openai.ChatCompletionMessage, 0, len(prompt.Messages)+1)
	messages = append(
		messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompt.System,
		},
	)
	for _, m := range prompt.Messages {
		messages = append(
			messages, openai.ChatCompletionMessage{
				Role:    string(m.Role),
				Content: m.Content,
			},
		)
	}

	resp, err := c.CreateChatCompletion(
		ctx, openai.ChatCompletionRequest{
			Model:       p.model,
			Temperature: p.temperature,
			TopP:        1,
			N:           1,
			MaxTokens:   1024,
			Messages:    messages,
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
