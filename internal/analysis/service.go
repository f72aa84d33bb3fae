// Package analysis runs the AI analysis pipeline: input limits, degraded
// mode, the daily token budget, the model call and output parsing.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"lore-server/internal/aiclient"
	"lore-server/internal/models"
	"lore-server/internal/quota"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const temperature = 0.4

// UsagePublisher receives one event per live call that reported usage.
type UsagePublisher interface {
	PublishAnalysisUsage(ctx context.Context, event models.AnalysisUsageEvent) error
}

// Service is safe for concurrent use.
type Service struct {
	resolver  Resolver
	ledger    quota.Ledger
	client    aiclient.Client
	estimator aiclient.TokenEstimator
	publisher UsagePublisher
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Service)

// WithEstimator logs an estimated prompt size before each live call.
func WithEstimator(e aiclient.TokenEstimator) Option {
	return func(s *Service) { s.estimator = e }
}

func WithUsagePublisher(p UsagePublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLocation sets the timezone that decides where a budget day starts.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the pipeline. client may be nil; calls then run in
// degraded mode unless the resolver claims a credential exists.
func NewService(resolver Resolver, ledger quota.Ledger, client aiclient.Client, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		resolver: resolver,
		ledger:   ledger,
		client:   client,
		location: time.UTC,
		now:      time.Now,
		logger:   logger.Named("AnalysisService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze returns a structured analysis of text. Errors are the sentinels
// in this package; the underlying cause is logged, never wrapped.
func (s *Service) Analyze(ctx context.Context, text string) (*Result, error) {
	cfg := s.resolver.Resolve()

	text = strings.TrimSpace(text)
	if text == "" {
		analysisRequestsTotal.WithLabelValues("none", "empty_input").Inc()
		return nil, ErrEmptyInput
	}
	text = truncate(text, cfg.MaxInputChars)

	return s.choosePath(cfg).run(ctx, text)
}

// path is the mode of one invocation, decided once from the config snapshot.
type path interface {
	run(ctx context.Context, text string) (*Result, error)
}

type degradedPath struct {
	logger *zap.Logger
}

type livePath struct {
	s   *Service
	cfg Config
}

func (s *Service) choosePath(cfg Config) path {
	if !cfg.Enabled || !cfg.Credentialed {
		return degradedPath{logger: s.logger}
	}
	return livePath{s: s, cfg: cfg}
}

func (p degradedPath) run(_ context.Context, text string) (*Result, error) {
	p.logger.Info("Using placeholder analysis (AI disabled or not configured)")
	analysisRequestsTotal.WithLabelValues(string(ModeMock), "success").Inc()
	return placeholder(text), nil
}

func (p livePath) run(ctx context.Context, text string) (*Result, error) {
	s, cfg := p.s, p.cfg
	day := quota.DayOf(s.now(), s.location)
	log := s.logger.With(zap.String("model", cfg.Model), zap.String("day", string(day)))

	used, err := s.ledger.Used(ctx, day)
	if err != nil {
		log.Error("Failed to read daily token usage", zap.Error(err))
		analysisRequestsTotal.WithLabelValues(string(ModeLive), "quota_unavailable").Inc()
		return nil, ErrQuotaUnavailable
	}
	if used >= cfg.DailyTokenBudget {
		log.Warn("Daily token budget exceeded", zap.Int64("used", used), zap.Int64("budget", cfg.DailyTokenBudget))
		analysisRequestsTotal.WithLabelValues(string(ModeLive), "budget_exceeded").Inc()
		return nil, ErrDailyBudgetExceeded
	}

	if s.client == nil {
		log.Error("Live analysis requested without a configured AI client")
		analysisRequestsTotal.WithLabelValues(string(ModeLive), "misconfigured").Inc()
		return nil, ErrMisconfiguredClient
	}

	req := aiclient.Request{
		Model:       cfg.Model,
		System:      systemPrompt,
		User:        buildUserPrompt(text),
		MaxTokens:   cfg.MaxOutputTokens,
		Temperature: temperature,
		JSON:        true,
	}
	if s.estimator != nil {
		if n, ok := s.estimator.Estimate(cfg.Model, req.System+req.User); ok {
			log.Debug("Estimated prompt size", zap.Int("tokens", n))
		}
	}

	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		log.Error("AI analysis call failed", zap.Error(err))
		analysisRequestsTotal.WithLabelValues(string(ModeLive), "upstream_failure").Inc()
		return nil, ErrUpstreamFailure
	}

	if total := resp.Usage.TotalTokens; total != nil {
		s.recordUsage(ctx, log, day, resp.Usage, cfg)
		analysisTokensTotal.Add(float64(*total))
	}

	result, err := parseResult(resp.Content)
	if err != nil {
		log.Error("AI returned unparseable output", zap.Error(err), zap.Int("contentLength", len(resp.Content)))
		analysisRequestsTotal.WithLabelValues(string(ModeLive), "upstream_failure").Inc()
		return nil, ErrUpstreamFailure
	}

	model := cfg.Model
	result.Meta = Meta{
		Mode:         ModeLive,
		Model:        &model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}
	analysisRequestsTotal.WithLabelValues(string(ModeLive), "success").Inc()
	return result, nil
}

// recordUsage charges the ledger. A failure here is logged only: the model
// already answered and the caller should get the result.
func (s *Service) recordUsage(ctx context.Context, log *zap.Logger, day quota.Day, usage aiclient.Usage, cfg Config) {
	total := int64(*usage.TotalTokens)
	// The request may be cancelled by now; the spend still happened.
	bg := context.WithoutCancel(ctx)

	if err := s.ledger.Add(bg, day, total); err != nil {
		log.Error("Failed to record token usage", zap.Int64("tokens", total), zap.Error(err))
	} else {
		log.Info("AI analysis usage recorded",
			zap.Intp("promptTokens", usage.PromptTokens),
			zap.Intp("completionTokens", usage.CompletionTokens),
			zap.Int64("totalTokens", total),
			zap.Int64("budget", cfg.DailyTokenBudget),
		)
	}

	if s.publisher == nil {
		return
	}
	event := models.AnalysisUsageEvent{
		EventID:          uuid.NewString(),
		Model:            cfg.Model,
		Day:              string(day),
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      *usage.TotalTokens,
		OccurredAt:       s.now().UTC(),
	}
	if err := s.publisher.PublishAnalysisUsage(bg, event); err != nil {
		log.Warn("Failed to publish usage event", zap.Error(err))
	}
}

type modelOutput struct {
	Summary     string   `json:"summary"`
	Themes      []string `json:"themes"`
	Tone        string   `json:"tone"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// parseResult decodes the model's JSON. Omitted fields become "" or [].
func parseResult(content string) (*Result, error) {
	var out modelOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return &Result{
		Summary:     strings.TrimSpace(out.Summary),
		Themes:      orEmpty(out.Themes),
		Tone:        strings.TrimSpace(out.Tone),
		Strengths:   orEmpty(out.Strengths),
		Weaknesses:  orEmpty(out.Weaknesses),
		Suggestions: orEmpty(out.Suggestions),
	}, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// truncate keeps the first max characters of text. Counting is by code point
// so a multi-byte character is never split.
func truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	i := 0
	for pos := range text {
		if i == max {
			return text[:pos]
		}
		i++
	}
	return text
}

// IsUnavailable reports whether err should surface as a generic
// service-unavailable response.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUpstreamFailure) ||
		errors.Is(err, ErrMisconfiguredClient) ||
		errors.Is(err, ErrQuotaUnavailable)
}
