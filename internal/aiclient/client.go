// Package aiclient talks to chat-completion backends (OpenAI-compatible APIs
// or a local Ollama server).
package aiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrCompletionFailed wraps every transport, protocol or empty-response failure.
var ErrCompletionFailed = errors.New("ai completion failed")

// Request is a single non-streaming chat completion.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	// JSON asks the backend to constrain output to a JSON object.
	JSON bool
}

// Usage holds token accounting. A nil field means the backend did not report it.
type Usage struct {
	PromptTokens     *int
	CompletionTokens *int
	TotalTokens      *int
}

type Response struct {
	Content string
	Usage   Usage
}

// Client performs one completion call. Implementations never retry.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

const (
	TypeOpenAI = "openai"
	TypeOllama = "ollama"
)

// Config selects and configures a backend.
type Config struct {
	ClientType string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
}

// New builds the client for cfg.ClientType. It returns (nil, nil) when the
// OpenAI backend is selected without an API key: there is nothing to call.
func New(cfg Config, logger *zap.Logger) (Client, error) {
	switch strings.ToLower(cfg.ClientType) {
	case "", TypeOpenAI:
		if cfg.APIKey == "" {
			logger.Info("AI API key is not configured, live analysis disabled")
			return nil, nil
		}
		return NewOpenAIClient(cfg, logger), nil
	case TypeOllama:
		c, err := NewOllamaClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown AI client type %q", cfg.ClientType)
	}
}

func intPtr(v int) *int { return &v }
