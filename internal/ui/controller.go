package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/platform/logger"
)

// Alert texts.
const (
	EmptyInputAlertPrefix = "Please paste some text to generate "
	UnexpectedAlert       = "Something went wrong. Check server logs."
)

var (
	// ErrEmptyInput is returned when #inputText is blank. No request is sent.
	ErrEmptyInput = errors.New("no input text")

	// ErrUnexpected wraps transport failures and malformed responses.
	ErrUnexpected = errors.New("unexpected generation failure")

	// ErrMalformedResponse is returned when a response lacks the content
	// for the requested mode.
	ErrMalformedResponse = errors.New("malformed generate response")
)

// AppError is an error message returned by the server. The user sees
// Message verbatim.
type AppError struct {
	Message string
}

func (e *AppError) Error() string { return e.Message }

// GenerateClient sends one /generate request. A response carrying an error
// message is returned with a nil error.
type GenerateClient interface {
	Generate(ctx context.Context, req shared.GenerateRequest) (*shared.GenerateResponse, error)
}

// Alerter shows a message to the user.
type Alerter interface {
	Alert(message string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(message string)

// Alert implements Alerter.
func (f AlertFunc) Alert(message string) { f(message) }

// Controller generates content from the page's input and renders it into
// the page. Calls may overlap; each makes one request and renders under a
// lock, so a container only ever holds the output of one call.
type Controller struct {
	mu      sync.Mutex
	page    *Page
	client  GenerateClient
	alerter Alerter
	logger  *slog.Logger
}

// NewController creates a Controller for page.
func NewController(page *Page, client GenerateClient, alerter Alerter, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		page:    page,
		client:  client,
		alerter: alerter,
		logger:  log.With("component", "ui_controller"),
	}
}

// GenerateContent reads #inputText, requests content for mode and renders
// it into #flashcards or #quiz. Every failure is alerted and also returned:
// ErrEmptyInput, an *AppError, or an error wrapping ErrUnexpected. A failed
// call leaves the containers untouched.
func (c *Controller) GenerateContent(ctx context.Context, mode string) error {
	log := logger.FromContextOrDefault(ctx, c.logger).With("mode", mode)

	c.mu.Lock()
	text := strings.TrimSpace(c.page.InputValue())
	c.mu.Unlock()

	if text == "" {
		c.alerter.Alert(EmptyInputAlertPrefix + mode)
		return ErrEmptyInput
	}

	resp, err := c.client.Generate(ctx, shared.GenerateRequest{Text: text, Mode: mode})
	if err != nil {
		return c.unexpected(log, "generate request failed", err)
	}
	if resp.HasError() {
		c.alerter.Alert(resp.Error)
		return &AppError{Message: resp.Error}
	}

	if err := checkShape(mode, resp); err != nil {
		return c.unexpected(log, "unusable generate response", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch domain.Mode(mode) {
	case domain.ModeFlashcards:
		err = c.renderFlashcards(resp.Flashcards)
	case domain.ModeQuiz:
		err = c.renderQuiz(resp.Quiz)
	}
	if err != nil {
		return c.unexpected(log, "failed to render response", err)
	}
	return nil
}

// ShowRegister switches the page to the registration form.
func (c *Controller) ShowRegister() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ShowRegister(c.page)
}

// ShowLogin switches the page to the login form.
func (c *Controller) ShowLogin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ShowLogin(c.page)
}

// View runs fn with exclusive access to the page.
func (c *Controller) View(fn func(p *Page) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.page)
}

func (c *Controller) unexpected(log *slog.Logger, msg string, err error) error {
	log.Error(msg, "error", err)
	c.alerter.Alert(UnexpectedAlert)
	return fmt.Errorf("%w: %w", ErrUnexpected, err)
}

func (c *Controller) renderFlashcards(cards []domain.Flashcard) error {
	if err := c.page.Clear(IDFlashcards); err != nil {
		return err
	}
	for _, card := range cards {
		if err := c.page.Append(IDFlashcards, FlashcardNode(card)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) renderQuiz(quiz []domain.QuizQuestion) error {
	if err := c.page.Clear(IDQuiz); err != nil {
		return err
	}
	for i, q := range quiz {
		if err := c.page.Append(IDQuiz, QuizQuestionNode(i, q)); err != nil {
			return err
		}
	}
	return nil
}

// checkShape rejects responses that lack the list for mode, so that a bad
// response never clears a container. Other modes render nothing.
func checkShape(mode string, resp *shared.GenerateResponse) error {
	switch domain.Mode(mode) {
	case domain.ModeFlashcards:
		if resp.Flashcards == nil {
			return fmt.Errorf("%w: no flashcards", ErrMalformedResponse)
		}
	case domain.ModeQuiz:
		if resp.Quiz == nil {
			return fmt.Errorf("%w: no quiz", ErrMalformedResponse)
		}
		for i, q := range resp.Quiz {
			if q.Options == nil {
				return fmt.Errorf("%w: question %d has no options", ErrMalformedResponse, i+1)
			}
		}
	}
	return nil
}
