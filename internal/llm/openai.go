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

const DefaultOpenAIBaseURL = "https://api.openai.com"

type OpenAIClient struct {
	c            fetch.HTTPClient
	baseURL      string
	apiKey       string
	defaultModel string
}

func NewOpenAIClient(c fetch.HTTPClient, baseURL, apiKey, defaultModel string) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIClient{c: c, baseURL: baseURL, apiKey: apiKey, defaultModel: defaultModel}
}

func (o *OpenAIClient) Name() string { return "openai" }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []openAIMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Complete relays the prompt to the chat completions endpoint.
func (o *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.defaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	body, err := json.Marshal(openAIRequest{
		Model:     model,
		Messages:  []openAIMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}
	return doJSON(ctx, o.c,
		func() (*http.Request, error) {
			r, err := http.NewRequest(http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set("Authorization", "Bearer "+o.apiKey)
			return r, nil
		},
		func(r io.Reader) (string, error) {
			var out openAIResponse
			if err := json.NewDecoder(r).Decode(&out); err != nil {
				return "", err
			}
			if len(out.Choices) == 0 {
				return "", errors.New("openai: empty choices")
			}
			return out.Choices[0].Message.Content, nil
		},
	)
}
