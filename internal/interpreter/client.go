// Package interpreter turns a free-text availability message into a
// validated ChangeSet.  The language model is treated as an untrusted
// producer: the network call lives in this file, and everything that
// touches its output goes through the pure sanitize pass in sanitize.go.
package interpreter

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Completer is the single LLM operation the interpreter needs.  Tests
// substitute a canned implementation; production uses Client below.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ClientConfig holds the settings for the chat-completion endpoint.  Any
// OpenAI-compatible server works; the base URL is configurable so local
// or proxy deployments can be pointed at without code changes.
type ClientConfig struct {
	APIKey  string
	BaseURL string // empty means the provider default
	Model   string
}

// Client performs one chat-completion call per user message.  It does not
// retry: transport failures are fatal for the current request and retry
// policy belongs to the caller.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Client from config.  A missing API key is a
// configuration failure surfaced on the first call, not at startup, so
// the server can boot without credentials in environments that never hit
// the chat endpoint.
func NewClient(cfg ClientConfig) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{api: openai.NewClientWithConfig(c), model: model}
}

// Complete sends the system prompt and user message and returns the raw
// model text.  Temperature is pinned low so the JSON-only instruction is
// followed as deterministically as the provider allows.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
