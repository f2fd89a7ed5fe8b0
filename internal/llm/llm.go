// Package llm relays prompts to third-party completion APIs. It carries no
// prompt construction or generation logic of its own: prompt in, text out.
package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikedeiure/CustomApp-V1/internal/fetch"
	"github.com/mikedeiure/CustomApp-V1/internal/utils"
)

// Request is one relayed prompt. Model falls back to the provider default
// when empty.
type Request struct {
	Model     string `json:"model,omitempty"`
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"maxTokens,omitempty"`
}

// Provider turns a prompt into completion text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

const defaultMaxTokens = 1024

// doJSON posts a JSON body with retry and decodes the response via parse.
// Non-2xx responses surface the status and a body snippet.
func doJSON(ctx context.Context, c fetch.HTTPClient, build func() (*http.Request, error), parse func(io.Reader) (string, error)) (string, error) {
	var out string
	err := utils.NewBackoff(200*time.Millisecond, 2).Do(func(int) error {
		req, err := build()
		if err != nil {
			return err
		}
		resp, err := c.Do(req.WithContext(ctx))
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
		}
		out, err = parse(resp.Body)
		return err
	})
	return out, err
}
