package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
)

// Generator produces study material from text.
type Generator interface {
	// GenerateFlashcards returns question/answer pairs covering text.
	GenerateFlashcards(ctx context.Context, text string) ([]domain.Flashcard, error)

	// GenerateQuiz returns multiple-choice questions covering text.
	GenerateQuiz(ctx context.Context, text string) ([]domain.QuizQuestion, error)
}

// Completer sends a single prompt to a language model and returns its raw
// text output. Implementations wrap transient failures with
// ErrTransientFailure so they can be retried.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMGenerator implements Generator on top of a Completer.
type LLMGenerator struct {
	completer Completer
	prompts   *PromptBuilder
	retry     RetryPolicy
	logger    *slog.Logger
}

var _ Generator = (*LLMGenerator)(nil)

// NewLLMGenerator creates a Generator. A nil logger selects slog.Default.
func NewLLMGenerator(completer Completer, prompts *PromptBuilder, retry RetryPolicy, log *slog.Logger) (*LLMGenerator, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", ErrInvalidConfig)
	}
	if prompts == nil {
		return nil, fmt.Errorf("%w: prompt builder is required", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}
	return &LLMGenerator{
		completer: completer,
		prompts:   prompts,
		retry:     retry,
		logger:    log.With(slog.String("component", "generator")),
	}, nil
}

// GenerateFlashcards implements Generator.
func (g *LLMGenerator) GenerateFlashcards(ctx context.Context, text string) ([]domain.Flashcard, error) {
	raw, err := g.complete(ctx, domain.ModeFlashcards, text)
	if err != nil {
		return nil, err
	}
	cards, err := ParseFlashcards(raw)
	if err != nil {
		logger.FromContextOrDefault(ctx, g.logger).Warn("could not parse flashcards",
			slog.String("error", err.Error()),
			slog.Int("response_length", len(raw)))
		return nil, err
	}
	return cards, nil
}

// GenerateQuiz implements Generator.
func (g *LLMGenerator) GenerateQuiz(ctx context.Context, text string) ([]domain.QuizQuestion, error) {
	raw, err := g.complete(ctx, domain.ModeQuiz, text)
	if err != nil {
		return nil, err
	}
	quiz, err := ParseQuiz(raw)
	if err != nil {
		logger.FromContextOrDefault(ctx, g.logger).Warn("could not parse quiz",
			slog.String("error", err.Error()),
			slog.Int("response_length", len(raw)))
		return nil, err
	}
	return quiz, nil
}

func (g *LLMGenerator) complete(ctx context.Context, mode domain.Mode, text string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger).With(slog.String("mode", mode.String()))

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	prompt, err := g.prompts.Build(mode, text)
	if err != nil {
		return "", err
	}

	log.Debug("sending prompt", slog.Int("prompt_length", len(prompt)))
	raw, err := Retry(ctx, g.retry, log, func(ctx context.Context) (string, error) {
		return g.completer.Complete(ctx, prompt)
	})
	if err != nil {
		log.Error("generation failed", slog.String("error", err.Error()))
		return "", err
	}
	return raw, nil
}
