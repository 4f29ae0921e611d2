package llm

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/pranesh-rpo/IrisChat/internal/logger"
)

type Role string

const (
	RoleUser      = Role("user")
	RoleAssistant = Role("assistant")
)

type ChatMessage struct {
	Role    Role
	Content string
}

// Prompt is the provider-agnostic request shape: a system instruction
// plus the conversation window ending with the triggering message.
type Prompt struct {
	System   string
	Messages []ChatMessage
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

var (
	ErrEmptyReply         = errors.New("provider returned empty reply")
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// Chain tries providers in priority order with a bounded timeout per
// call. The first non-empty scrubbed reply wins.
type Chain struct {
	providers []Provider
	timeout   time.Duration
}

func NewChain(timeout time.Duration, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		timeout:   timeout,
	}
}

func (c *Chain) Len() int {
	return len(c.providers)
}

func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

func (c *Chain) Generate(ctx context.Context, prompt Prompt) (string, error) {
	for _, p := range c.providers {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		reply, err := p.Generate(callCtx, prompt)
		cancel()
		if err != nil {
			logger.L.Warn("provider failed, trying next", "provider", p.Name(), "error", err)
			continue
		}
		reply = Scrub(reply)
		if reply == "" {
			logger.L.Warn("provider returned empty reply, trying next", "provider", p.Name())
			continue
		}
		logger.L.Debug("reply generated", "provider", p.Name())
		return reply, nil
	}
	return "", ErrAllProvidersFailed
}

// pickKey selects a random credential for this request so comma
// separated multi-key configs spread load across keys.
func pickKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[rand.Intn(len(keys))]
}
