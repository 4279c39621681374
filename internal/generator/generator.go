// Package generator talks to the text-generation service that translates
// legacy programs into Java.
package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"legacy-modernizer/internal/config"
	"legacy-modernizer/internal/model"
)

// New builds the configured generator. Without an API key the gemini
// provider falls back to Mock so offline runs still complete.
func New(ctx context.Context, cfg config.GeneratorConfig, log *zap.SugaredLogger) (model.Generator, error) {
	var gen model.Generator

	switch cfg.Provider {
	case "mock":
		gen = Mock{}
	case "", "gemini":
		if cfg.APIKey == "" {
			if log != nil {
				log.Warn("no generation API key configured, using mock generator")
			}
			gen = Mock{}
			break
		}
		g, err := NewGemini(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.MaxRetries, log)
		if err != nil {
			return nil, err
		}
		gen = g
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}

	if cfg.CacheSize > 0 {
		return NewCached(gen, cfg.CacheSize)
	}
	return gen, nil
}
