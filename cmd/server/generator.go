package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/studygen/internal/config"
	"github.com/phrazzld/studygen/internal/generation"
	"github.com/phrazzld/studygen/internal/platform/gemini"
	"github.com/phrazzld/studygen/internal/platform/openai"
)

const maxRetryDelay = 30 * time.Second

// newGenerator builds the LLM-backed generator for the configured provider.
func newGenerator(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (generation.Generator, error) {
	completer, err := newCompleter(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	prompts, err := generation.NewPromptBuilder(cfg.PromptTemplateDir, cfg.FlashcardCount, cfg.QuizQuestionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	retry := generation.RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		MaxDelay:   maxRetryDelay,
	}

	gen, err := generation.NewLLMGenerator(completer, prompts, retry, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	return gen, nil
}

func newCompleter(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (generation.Completer, error) {
	switch cfg.Provider {
	case "gemini":
		c, err := gemini.NewCompleter(ctx, log, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini completer: %w", err)
		}
		return c, nil
	case "openai":
		c, err := openai.NewCompleter(log, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai completer: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}
