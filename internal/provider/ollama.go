package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const ollamaProviderName = "ollama"

// OllamaProvider talks to an Ollama server through its OpenAI-compatible
// chat completions endpoint.
type OllamaProvider struct {
	client  *http.Client
	baseURL string
	model   string
}

// NewOllamaProvider builds a provider for the given server and model. A nil
// client gets a default with a conservative timeout.
func NewOllamaProvider(client *http.Client, baseURL, model string) *OllamaProvider {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &OllamaProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

func (p *OllamaProvider) Name() string      { return ollamaProviderName }
func (p *OllamaProvider) ModelName() string { return p.model }

// Available probes the models listing endpoint. Any transport error or
// non-200 status means the server cannot be used.
func (p *OllamaProvider) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/v1/models", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate posts the prompt as a chat completion and returns the first
// choice's content.
func (p *OllamaProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	messages := []chatMessage{
		{Role: "system", Content: prompt.System},
		{Role: "user", Content: prompt.User},
	}
	if prompt.FollowUp != "" {
		messages = append(messages,
			chatMessage{Role: "assistant", Content: prompt.PriorAnswer},
			chatMessage{Role: "user", Content: prompt.FollowUp})
	}
	payload := chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completion failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("could not decode chat response: %w", err)
	}
	if chat.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", chat.Error.Message)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

var _ Provider = (*OllamaProvider)(nil)
