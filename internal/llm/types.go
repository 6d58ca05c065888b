package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sozercan/tribunal/internal/config"
)

// Sampling parameters held fixed for reproducible, structure-compliant output.
const (
	Temperature = 0.2
	MaxTokens   = 1024
)

var ErrEmptyResponse = errors.New("provider returned no content")

type Provider interface {
	// Send delivers the system role and prompt and returns the raw completion text.
	Send(ctx context.Context, systemRole, prompt string) (string, error)
}

type Options struct {
	Model       string
	MaxTokens   int64
	Temperature float64
}

func defaultOptions(cfg *config.LLMConfig) Options {
	return Options{
		Model:       cfg.Model,
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}

// New builds the provider selected by cfg.Provider.
func New(ctx context.Context, cfg *config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, config.ProviderGroq, config.ProviderAzure:
		return NewOpenAI(cfg)
	case config.ProviderVertex:
		return NewVertex(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}
