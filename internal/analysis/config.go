package analysis

import (
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

// Defaults applied when a setting is unset or unusable.
const (
	DefaultEnabled          = true
	DefaultModel            = "gpt-4.1-mini"
	DefaultMaxOutputTokens  = 256
	DefaultMaxInputChars    = 8000
	DefaultDailyTokenBudget = 200000
)

// Config is an immutable snapshot of analysis settings for one call.
type Config struct {
	Enabled          bool
	Model            string
	MaxOutputTokens  int
	MaxInputChars    int
	DailyTokenBudget int64
	// Credentialed reports whether a usable upstream client is configured.
	Credentialed bool
}

// Resolver produces a fresh Config for every pipeline invocation.
type Resolver interface {
	Resolve() Config
}

// rawSettings is read with envconfig as plain strings so that one bad value
// only resets that value.
type rawSettings struct {
	Enabled          string `envconfig:"AI_ENABLED"`
	Model            string `envconfig:"AI_MODEL"`
	MaxOutputTokens  string `envconfig:"AI_MAX_OUTPUT_TOKENS"`
	MaxInputChars    string `envconfig:"AI_MAX_INPUT_CHARS"`
	DailyTokenBudget string `envconfig:"AI_DAILY_TOKEN_BUDGET"`
}

// EnvResolver reads AI_* variables from the process environment on every call.
type EnvResolver struct {
	credentialed func() bool
	logger       *zap.Logger
}

// NewEnvResolver returns a resolver. credentialed is consulted on every
// Resolve; nil means never credentialed.
func NewEnvResolver(credentialed func() bool, logger *zap.Logger) *EnvResolver {
	if credentialed == nil {
		credentialed = func() bool { return false }
	}
	return &EnvResolver{credentialed: credentialed, logger: logger.Named("AnalysisConfig")}
}

// Resolve never fails.
func (r *EnvResolver) Resolve() Config {
	var raw rawSettings
	if err := envconfig.Process("", &raw); err != nil {
		// Only string fields: this is not expected, but defaults are always safe.
		r.logger.Warn("Failed to read AI settings, using defaults", zap.Error(err))
		raw = rawSettings{}
	}

	cfg := Config{
		Enabled:          r.parseBool("AI_ENABLED", raw.Enabled, DefaultEnabled),
		Model:            strings.TrimSpace(raw.Model),
		MaxOutputTokens:  int(r.parseInt("AI_MAX_OUTPUT_TOKENS", raw.MaxOutputTokens, DefaultMaxOutputTokens, 1)),
		MaxInputChars:    int(r.parseInt("AI_MAX_INPUT_CHARS", raw.MaxInputChars, DefaultMaxInputChars, 1)),
		DailyTokenBudget: r.parseInt("AI_DAILY_TOKEN_BUDGET", raw.DailyTokenBudget, DefaultDailyTokenBudget, 0),
		Credentialed:     r.credentialed(),
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return cfg
}

func (r *EnvResolver) parseBool(name, value string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	r.logger.Warn("Invalid boolean setting, using default", zap.String("name", name), zap.String("value", value), zap.Bool("default", def))
	return def
}

func (r *EnvResolver) parseInt(name, value string, def, min int64) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n < min {
		r.logger.Warn("Invalid numeric setting, using default", zap.String("name", name), zap.String("value", value), zap.Int64("default", def))
		return def
	}
	return n
}

// StaticResolver always returns the same Config.
type StaticResolver Config

func (s StaticResolver) Resolve() Config { return Config(s) }
