package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// Gemini calls the generateContent REST API directly. The official SDK
// drags a large cloud dependency tree for what is a single JSON call.
type Gemini struct {
	baseURL string
	apiKeys []string
	model   string
	httpc   *http.Client
}

func NewGemini(apiKeys []string, model string) *Gemini {
	return &Gemini{
		baseURL: geminiEndpoint,
		apiKeys: apiKeys,
		model:   model,
		httpc:   &http.Client{Timeout: time.Minute},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Name() string {
	return "gemini"
}

func (g *Gemini) Generate(ctx context.Context, prompt Prompt) (string, error) {
	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: prompt.System}},
		},
		Contents: make([]geminiContent, 0, len(prompt.Messages)),
	}
	for _, m := range prompt.Messages {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		reqBody.Contents = append(
			reqBody.Contents, geminiContent{
				Role:  role,
				Parts: []geminiPart{{Text: m.Content}},
			},
		)
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", pickKey(g.apiKeys))

	resp, err := g.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini returned %s: %s", resp.Status, body)
	}

	var out geminiResponse
	if err = json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyReply
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
