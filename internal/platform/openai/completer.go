package openai

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
	goopenai "github.com/sashabaranov/go-openai"
)

// systemPrompt keeps models in JSON mode from wrapping output in prose.
const systemPrompt = "You write study material. Reply with a single JSON object and nothing else."

// Completer sends prompts to a chat completions model.
type Completer struct {
	client *goopenai.Client
	model  string
	logger *slog.Logger
}

var _ generation.Completer = (*Completer)(nil)

// NewCompleter creates a Completer from the LLM configuration. An empty
// OpenAIBaseURL selects the public OpenAI API.
func NewCompleter(log *slog.Logger, cfg config.LLMConfig) (*Completer, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key is required", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name is required", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	clientCfg := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
	}

	return &Completer{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  cfg.ModelName,
		logger: log.With(slog.String("component", "openai"), slog.String("model", cfg.ModelName)),
	}, nil
}

// Complete implements generation.Completer.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.Warn("chat completion failed", slog.String("error", err.Error()))
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", generation.ErrInvalidResponse)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		log.Info("response blocked by content filter")
		return "", generation.ErrContentBlocked
	}
	if strings.TrimSpace(choice.Message.Content) == "" {
		return "", fmt.Errorf("%w: empty message", generation.ErrInvalidResponse)
	}

	log.Debug("chat completion received",
		slog.Int("length", len(choice.Message.Content)),
		slog.Int("total_tokens", resp.Usage.TotalTokens))
	return choice.Message.Content, nil
}

func classifyError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	case errors.Is(err, context.Canceled):
		return err
	default:
		// No HTTP status: the request never got a response.
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	if status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}
