package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studygen/internal/mocks"
	"github.com/phrazzld/studygen/internal/platform/logger"
	"github.com/phrazzld/studygen/internal/platform/paystack"
	"github.com/phrazzld/studygen/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkoutURL = "https://checkout.paystack.com/abc123"

func newSubscriptionHandler(t *testing.T, svc *mocks.MockSubscriptionService) *SubscriptionHandler {
	t.Helper()
	log, _ := logger.NewTestLogger(t)
	return NewSubscriptionHandler(svc, log)
}

func TestSubscribe(t *testing.T) {
	userID := uuid.New()
	svc := &mocks.MockSubscriptionService{
		StartFn: func(_ context.Context, id uuid.UUID) (string, error) {
			assert.Equal(t, userID, id)
			return checkoutURL, nil
		},
	}
	h := newSubscriptionHandler(t, svc)

	w := httptest.NewRecorder()
	h.Subscribe(w, newRequest(t, http.MethodPost, "/subscribe", nil, userID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authorization_url":"`+checkoutURL+`"}`, w.Body.String())

	r := newRequest(t, http.MethodPost, "/subscribe", nil, userID)
	r.Header.Set("Accept", "text/html,application/xhtml+xml")
	w = httptest.NewRecorder()
	h.Subscribe(w, r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, checkoutURL, w.Header().Get("Location"))
}

func TestSubscribeUnavailable(t *testing.T) {
	svc := &mocks.MockSubscriptionService{
		StartFn: func(context.Context, uuid.UUID) (string, error) {
			return "", paystack.ErrPaymentUnavailable
		},
	}
	h := newSubscriptionHandler(t, svc)

	w := httptest.NewRecorder()
	h.Subscribe(w, newRequest(t, http.MethodPost, "/subscribe", nil, uuid.New()))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error":"Payment temporarily unavailable. Please try again later."}`, w.Body.String())

	r := newRequest(t, http.MethodPost, "/subscribe", nil, uuid.New())
	r.Header.Set("Accept", "text/html")
	w = httptest.NewRecorder()
	h.Subscribe(w, r)
	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", loc.Path)
	assert.Equal(t, MsgPaymentUnavailable, loc.Query().Get("notice"))
	assert.Equal(t, NoticeLevelError, loc.Query().Get("level"))
}

func TestVerify(t *testing.T) {
	until := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := &mocks.MockSubscriptionService{
		VerifyFn: func(_ context.Context, reference string) (*service.SubscriptionResult, error) {
			switch reference {
			case "ok":
				return &service.SubscriptionResult{UserID: uuid.New(), SubscribedUntil: until}, nil
			case "":
				return nil, service.ErrMissingReference
			default:
				return nil, service.ErrPaymentNotSuccessful
			}
		},
	}
	h := newSubscriptionHandler(t, svc)

	w := httptest.NewRecorder()
	h.Verify(w, newRequest(t, http.MethodGet, "/verify?reference=ok", nil, uuid.Nil))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[VerifyResponse](t, w)
	assert.Equal(t, NoticeSubscribed, resp.Message)
	assert.True(t, until.Equal(resp.SubscribedUntil))

	w = httptest.NewRecorder()
	h.Verify(w, newRequest(t, http.MethodGet, "/verify", nil, uuid.Nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing transaction reference."}`, w.Body.String())

	w = httptest.NewRecorder()
	h.Verify(w, newRequest(t, http.MethodGet, "/verify?reference=abandoned", nil, uuid.Nil))
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"Payment verification failed. Please try again."}`, w.Body.String())
}

func TestVerifyBrowserRedirect(t *testing.T) {
	svc := &mocks.MockSubscriptionService{
		VerifyFn: func(context.Context, string) (*service.SubscriptionResult, error) {
			return &service.SubscriptionResult{SubscribedUntil: time.Now()}, nil
		},
	}

	r := newRequest(t, http.MethodGet, "/verify?reference=ok", nil, uuid.Nil)
	r.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	newSubscriptionHandler(t, svc).Verify(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, NoticeSubscribed, loc.Query().Get("notice"))
	assert.Equal(t, NoticeLevelOK, loc.Query().Get("level"))
}
