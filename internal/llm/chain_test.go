package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name  string
	reply string
	err   error
	calls int
}

func (s *stubProvider) Name() string {
	return s.name
}

func (s *stubProvider) Generate(_ context.Context, _ Prompt) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestChain_FirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "first", reply: "hello from first"}
	second := &stubProvider{name: "second", reply: "hello from second"}
	chain := NewChain(time.Second, first, second)

	reply, err := chain.Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	require.Equal(t, "hello from first", reply)
	require.Equal(t, 1, first.calls)
	require.Zero(t, second.calls)
}

func TestChain_FallsBackOnError(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("quota exceeded")}
	second := &stubProvider{name: "second", reply: "rescued"}
	chain := NewChain(time.Second, first, second)

	reply, err := chain.Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	require.Equal(t, "rescued", reply)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

func TestChain_SkipsEmptyReply(t *testing.T) {
	first := &stubProvider{name: "first", reply: "   "}
	second := &stubProvider{name: "second", reply: "real answer"}
	chain := NewChain(time.Second, first, second)

	reply, err := chain.Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	require.Equal(t, "real answer", reply)
}

func TestChain_AllProvidersFailed(t *testing.T) {
	first := &stubProvider{name: "first", err: errors.New("down")}
	second := &stubProvider{name: "second", err: errors.New("also down")}
	chain := NewChain(time.Second, first, second)

	_, err := chain.Generate(context.Background(), Prompt{})
	require.ErrorIs(t, err, ErrAllProvidersFailed)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

func TestChain_TimeoutMovesToNext(t *testing.T) {
	slow := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				// Drain the body so the server notices the client
				// disconnect and cancels the request context.
				_, _ = io.Copy(io.Discard, r.Body)
				<-r.Context().Done()
			},
		),
	)
	defer slow.Close()

	ollama, err := NewOllama(slow.URL, "test-model", 0.5)
	require.NoError(t, err)
	second := &stubProvider{name: "second", reply: "fallback"}
	chain := NewChain(50*time.Millisecond, ollama, second)

	reply, err := chain.Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	require.Equal(t, "fallback", reply)
}

func TestOpenAICompatible_Generate(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(
					[]byte(`{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`),
				)
			},
		),
	)
	defer server.Close()

	ollama, err := NewOllama(server.URL, "test-model", 0.5)
	require.NoError(t, err)

	reply, err := ollama.Generate(
		context.Background(), Prompt{
			System:   "be nice",
			Messages: []ChatMessage{{Role: RoleUser, Content: "[Alice]: hello"}},
		},
	)
	require.NoError(t, err)
	require.Equal(t, "hi there", reply)
	require.Equal(t, "/v1/chat/completions", gotPath)
}

func TestGemini_Generate(t *testing.T) {
	var gotKey, gotPath string
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				gotKey = r.Header.Get("x-goog-api-key")
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(
					[]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hello!"}]}}]}`),
				)
			},
		),
	)
	defer server.Close()

	g := NewGemini([]string{"secret-key"}, "test-model")
	g.baseURL = server.URL

	reply, err := g.Generate(
		context.Background(), Prompt{
			System:   "be nice",
			Messages: []ChatMessage{{Role: RoleUser, Content: "[Bob]: hi"}},
		},
	)
	require.NoError(t, err)
	require.Equal(t, "hello!", reply)
	require.Equal(t, "secret-key", gotKey)
	require.Equal(t, "/models/test-model:generateContent", gotPath)
}

func TestGemini_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
		),
	)
	defer server.Close()

	g := NewGemini([]string{"k"}, "test-model")
	g.baseURL = server.URL

	_, err := g.Generate(context.Background(), Prompt{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestPickKey_RotatesWithinSet(t *testing.T) {
	keys := []string{"a", "b", "c"}
	for i := 0; i < 50; i++ {
		require.Contains(t, keys, pickKey(keys))
	}
	require.Empty(t, pickKey(nil))
}
