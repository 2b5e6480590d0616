package paystack

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/phrazzld/studygen/internal/platform/logger"
)

// DefaultBaseURL is the public Paystack API.
const DefaultBaseURL = "https://api.paystack.co"

const requestTimeout = 10 * time.Second

// InitializeRequest starts a checkout.
type InitializeRequest struct {
	Email       string
	AmountMinor int64
	Currency    string
	CallbackURL string
}

// Checkout is the result of a successful initialize call.
type Checkout struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// Transaction is a verified Paystack transaction.
type Transaction struct {
	Reference     string
	Status        string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	PaidAt        time.Time
}

// Successful reports whether the customer was charged.
func (t *Transaction) Successful() bool {
	return t.Status == "success"
}

// envelope is the shape of every Paystack response.
type envelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    *T     `json:"data"`
}

type initializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type verifyData struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PaidAt    string `json:"paid_at"`
	Customer  struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// Client calls the Paystack API with a secret key.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(secretKey, baseURL string, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetAuthToken(secretKey).
			SetHeader("Accept", "application/json").
			SetTimeout(requestTimeout),
		logger: log.With(slog.String("component", "paystack")),
	}
}

// InitializeTransaction creates a checkout the customer is redirected to.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*Checkout, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var result envelope[initializeData]
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"email":        req.Email,
			"amount":       strconv.FormatInt(req.AmountMinor, 10),
			"currency":     req.Currency,
			"callback_url": req.CallbackURL,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/transaction/initialize")
	if err != nil {
		log.Error("paystack initialize failed", slog.String("error", err.Error()))
		return nil, requestError(resp, err)
	}

	if !result.Status {
		log.Warn("paystack rejected initialize",
			slog.Int("status_code", resp.StatusCode()),
			slog.String("message", result.Message))
		return nil, rejection(resp.StatusCode(), result.Message)
	}
	if result.Data == nil || result.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: missing authorization_url", ErrUnexpectedResponse)
	}

	log.Info("paystack checkout initialized", slog.String("reference", result.Data.Reference))
	return &Checkout{
		AuthorizationURL: result.Data.AuthorizationURL,
		AccessCode:       result.Data.AccessCode,
		Reference:        result.Data.Reference,
	}, nil
}

// VerifyTransaction looks up a transaction by reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if strings.TrimSpace(reference) == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrPaymentRejected)
	}

	var result envelope[verifyData]
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&result).
		Get("/transaction/verify/" + url.PathEscape(reference))
	if err != nil {
		log.Error("paystack verify failed", slog.String("error", err.Error()))
		return nil, requestError(resp, err)
	}

	if !result.Status {
		log.Warn("paystack rejected verify",
			slog.Int("status_code", resp.StatusCode()),
			slog.String("message", result.Message))
		return nil, rejection(resp.StatusCode(), result.Message)
	}
	if result.Data == nil || result.Data.Reference == "" {
		return nil, fmt.Errorf("%w: missing transaction data", ErrUnexpectedResponse)
	}

	tx := &Transaction{
		Reference:     result.Data.Reference,
		Status:        result.Data.Status,
		AmountMinor:   result.Data.Amount,
		Currency:      result.Data.Currency,
		CustomerEmail: strings.ToLower(strings.TrimSpace(result.Data.Customer.Email)),
	}
	if result.Data.PaidAt != "" {
		paidAt, err := time.Parse(time.RFC3339, result.Data.PaidAt)
		if err != nil {
			return nil, fmt.Errorf("%w: paid_at %q: %v", ErrUnexpectedResponse, result.Data.PaidAt, err)
		}
		tx.PaidAt = paidAt.UTC()
	}
	return tx, nil
}

// requestError separates undecodable responses from transport failures.
func requestError(resp *resty.Response, err error) error {
	if resp != nil && resp.StatusCode() > 0 {
		return fmt.Errorf("%w: status %d: %v", ErrUnexpectedResponse, resp.StatusCode(), err)
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func rejection(statusCode int, message string) error {
	if strings.Contains(message, "No active channel") {
		return fmt.Errorf("%w: %s", ErrPaymentUnavailable, message)
	}
	if message == "" {
		return fmt.Errorf("%w: status %d without a message", ErrUnexpectedResponse, statusCode)
	}
	return fmt.Errorf("%w: %s", ErrPaymentRejected, message)
}
