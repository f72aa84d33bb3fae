package aiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"
)

var _ Client = (*OllamaClient)(nil)

const defaultOllamaURL = "http://localhost:11434"

// OllamaClient calls a local Ollama server through its native chat API.
type OllamaClient struct {
	client  *api.Client
	timeout time.Duration
	logger  *zap.Logger
}

func NewOllamaClient(cfg Config, logger *zap.Logger) (*OllamaClient, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	// The native API lives at the root, not under the OpenAI-compatible /v1.
	baseURL = strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL %q: %w", baseURL, err)
	}

	logger.Info("Ollama client created", zap.String("baseURL", baseURL), zap.Duration("timeout", cfg.Timeout))
	return &OllamaClient{
		client:  api.NewClient(parsed, &http.Client{Timeout: cfg.Timeout}),
		timeout: cfg.Timeout,
		logger:  logger.Named("OllamaClient"),
	}, nil
}

func (c *OllamaClient) Complete(ctx context.Context, req Request) (*Response, error) {
	stream := false
	chatReq := &api.ChatRequest{
		Model: req.Model,
		Messages: []api.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}
	if req.JSON {
		chatReq.Format = json.RawMessage(`"json"`)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	var resp api.ChatResponse
	err := c.client.Chat(ctx, chatReq, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	duration := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("Ollama chat timed out", zap.String("model", req.Model), zap.Duration("timeout", c.timeout))
		} else {
			c.logger.Error("Ollama chat failed", zap.String("model", req.Model), zap.Error(err))
		}
		aiRequestsTotal.WithLabelValues(TypeOllama, req.Model, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	aiRequestDuration.WithLabelValues(TypeOllama, req.Model).Observe(duration.Seconds())

	if resp.Message.Content == "" {
		aiRequestsTotal.WithLabelValues(TypeOllama, req.Model, "error_empty_response").Inc()
		return nil, fmt.Errorf("%w: empty response", ErrCompletionFailed)
	}
	aiRequestsTotal.WithLabelValues(TypeOllama, req.Model, "success").Inc()

	var usage Usage
	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		usage = Usage{
			PromptTokens:     intPtr(resp.PromptEvalCount),
			CompletionTokens: intPtr(resp.EvalCount),
			TotalTokens:      intPtr(resp.PromptEvalCount + resp.EvalCount),
		}
		observeUsage(TypeOllama, req.Model, usage)
	}
	return &Response{Content: resp.Message.Content, Usage: usage}, nil
}
