package aiclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var _ Client = (*OpenAIClient)(nil)

// OpenAIClient calls any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *openaigo.Client
	logger *zap.Logger
}

func NewOpenAIClient(cfg Config, logger *zap.Logger) *OpenAIClient {
	openaiConfig := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		openaiConfig.BaseURL = cfg.BaseURL
	}
	openaiConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	logger.Info("OpenAI client created",
		zap.String("baseURL", openaiConfig.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
	)
	return &OpenAIClient{
		client: openaigo.NewClientWithConfig(openaiConfig),
		logger: logger.Named("OpenAIClient"),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Response, error) {
	chatReq := openaigo.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: req.System},
			{Role: openaigo.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error("Chat completion failed", zap.String("model", req.Model), zap.Duration("duration", duration), zap.Error(err))
		aiRequestsTotal.WithLabelValues(TypeOpenAI, req.Model, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	aiRequestDuration.WithLabelValues(TypeOpenAI, req.Model).Observe(duration.Seconds())

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("Chat completion returned no content", zap.String("model", req.Model))
		aiRequestsTotal.WithLabelValues(TypeOpenAI, req.Model, "error_empty_response").Inc()
		return nil, fmt.Errorf("%w: empty response", ErrCompletionFailed)
	}
	aiRequestsTotal.WithLabelValues(TypeOpenAI, req.Model, "success").Inc()

	var usage Usage
	// A zero total means the server did not report usage.
	if resp.Usage.TotalTokens > 0 {
		usage = Usage{
			PromptTokens:     intPtr(resp.Usage.PromptTokens),
			CompletionTokens: intPtr(resp.Usage.CompletionTokens),
			TotalTokens:      intPtr(resp.Usage.TotalTokens),
		}
		observeUsage(TypeOpenAI, req.Model, usage)
	}

	c.logger.Debug("Chat completion received",
		zap.String("model", req.Model),
		zap.Duration("duration", duration),
		zap.Int("promptTokens", resp.Usage.PromptTokens),
		zap.Int("completionTokens", resp.Usage.CompletionTokens),
	)
	return &Response{Content: resp.Choices[0].Message.Content, Usage: usage}, nil
}
