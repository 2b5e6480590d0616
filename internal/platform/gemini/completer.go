package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/studygen/internal/config"
	"github.com/phrazzld/studygen/internal/generation"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"google.golang.org/genai"
)

// ModelsAPI is the part of the genai client the completer uses.
type ModelsAPI interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Completer sends prompts to a Gemini model and returns the text response.
type Completer struct {
	models ModelsAPI
	model  string
	logger *slog.Logger
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter creates a Completer backed by the Gemini API.
func NewCompleter(ctx context.Context, log *slog.Logger, cfg config.LLMConfig) (*Completer, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return NewCompleterWithModels(client.Models, cfg.ModelName, log)
}

// NewCompleterWithModels creates a Completer on an existing models API.
func NewCompleterWithModels(models ModelsAPI, model string, log *slog.Logger) (*Completer, error) {
	if models == nil {
		return nil, fmt.Errorf("%w: models API is required", generation.ErrInvalidConfig)
	}
	if model == "" {
		return nil, fmt.Errorf("%w: model name is required", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Completer{
		models: models,
		model:  model,
		logger: log.With(slog.String("component", "gemini"), slog.String("model", model)),
	}, nil
}

// Complete implements generation.Completer.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		log.Warn("gemini request failed", slog.String("error", err.Error()))
		return "", classifyError(err)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: empty response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		log.Info("prompt blocked", slog.String("reason", string(resp.PromptFeedback.BlockReason)))
		return "", fmt.Errorf("%w: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		log.Info("response blocked by safety filters")
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidate has no content", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text in response", generation.ErrInvalidResponse)
	}

	log.Debug("gemini response received", slog.Int("length", sb.Len()))
	return sb.String(), nil
}

// classifyError marks rate limits, server errors and cancelled deadlines as
// transient so the generator retries them.
func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
