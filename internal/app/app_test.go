package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pranesh-rpo/IrisChat/config"
)

func TestBuildProviderChain_NoProvidersIsFatal(t *testing.T) {
	_, err := buildProviderChain(config.Providers{Timeout: time.Second})
	require.ErrorIs(t, err, ErrNoProviders)
}

func TestBuildProviderChain_PriorityOrder(t *testing.T) {
	chain, err := buildProviderChain(
		config.Providers{
			OllamaBaseURL:     "http://localhost:11434",
			OllamaModel:       "iris",
			GroqAPIKeys:       []string{"k1", "k2"},
			GroqModel:         "llama-3.3-70b-versatile",
			GeminiAPIKeys:     []string{"k"},
			GeminiModel:       "gemini-2.0-flash",
			OpenRouterAPIKeys: []string{"k"},
			OpenRouterModel:   "deepseek/deepseek-r1:free",
			Timeout:           time.Second,
		},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"ollama", "groq", "gemini", "openrouter"}, chain.Names())
}

func TestBuildProviderChain_PartialConfig(t *testing.T) {
	chain, err := buildProviderChain(
		config.Providers{
			GroqAPIKeys: []string{"k"},
			GroqModel:   "llama-3.3-70b-versatile",
			Timeout:     time.Second,
		},
	)
	require.NoError(t, err)
	require.Equal(t, []string{"groq"}, chain.Names())
}
