package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mikedeiure/CustomApp-V1/internal/fetch"
)

const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

type AnthropicClient struct {
	c            fetch.HTTPClient
	baseURL      string
	apiKey       string
	defaultModel string
}

func NewAnthropicClient(c fetch.HTTPClient, baseURL, apiKey, defaultModel string) *AnthropicClient {
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}
	return &AnthropicClient{c: c, baseURL: baseURL, apiKey: apiKey, defaultModel: defaultModel}
}

func (a *AnthropicClient) Name() string { return "anthropic" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete relays the prompt to the messages endpoint.
func (a *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = a.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body, err := json.Marshal(anthropicRequest{
		Model:     model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	})
	if err != nil {
		return "", err
	}
	return doJSON(ctx, a.c,
		func() (*http.Request, error) {
			r, err := http.NewRequest(http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set("x-api-key", a.apiKey)
			r.Header.Set("anthropic-version", anthropicVersion)
			return r, nil
		},
		func(r io.Reader) (string, error) {
			var out anthropicResponse
			if err := json.NewDecoder(r).Decode(&out); err != nil {
				return "", err
			}
			for _, c := range out.Content {
				if c.Type == "text" {
					return c.Text, nil
				}
			}
			return "", errors.New("anthropic: no text content")
		},
	)
}
