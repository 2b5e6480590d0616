package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/studygen/internal/api/shared"
	"github.com/phrazzld/studygen/internal/domain"
	"github.com/phrazzld/studygen/internal/generation"
	"github.com/phrazzld/studygen/internal/platform/paystack"
	"github.com/phrazzld/studygen/internal/service"
	"github.com/phrazzld/studygen/internal/service/auth"
	"github.com/phrazzld/studygen/internal/store"
)

// Messages shown to users. Some are matched by clients, so keep them stable.
const (
	MsgNoInputText         = "No input text provided."
	MsgInvalidMode         = "Invalid mode"
	MsgLoginRequired       = "Login required."
	MsgInvalidCredentials  = "Invalid credentials"
	MsgEmailExists         = "Email already registered!"
	MsgInvalidRequest      = "Invalid request format"
	MsgUnexpected          = "An unexpected error occurred"
	MsgGenerationFailed    = "Failed to generate content. Please try again."
	MsgContentBlocked      = "The text was blocked by the content filter."
	MsgPaymentUnavailable  = "Payment temporarily unavailable. Please try again later."
	MsgPaymentUnreachable  = "Failed to connect to Paystack."
	MsgPaymentUnexpected   = "Unexpected Paystack response. Please try again."
	MsgPaymentRejected     = "Paystack could not process the payment."
	MsgVerificationFailed  = "Payment verification failed. Please try again."
	MsgMissingReference    = "Missing transaction reference."
	MsgInvalidRefreshToken = "Invalid refresh token"
	MsgTimeout             = "The request took too long. Please try again."
)

type errorMapping struct {
	targets []error
	status  int
	message string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{[]error{domain.ErrEmptyText, generation.ErrEmptyText}, http.StatusBadRequest, MsgNoInputText},
	{[]error{domain.ErrInvalidMode}, http.StatusBadRequest, MsgInvalidMode},
	{[]error{generation.ErrContentBlocked}, http.StatusUnprocessableEntity, MsgContentBlocked},
	{[]error{
		generation.ErrInvalidResponse,
		generation.ErrGenerationFailed,
		generation.ErrTransientFailure,
	}, http.StatusBadGateway, MsgGenerationFailed},

	{[]error{auth.ErrInvalidToken, auth.ErrExpiredToken, auth.ErrTokenNotYetValid, auth.ErrMissingToken},
		http.StatusUnauthorized, MsgLoginRequired},
	{[]error{auth.ErrInvalidRefreshToken, auth.ErrExpiredRefreshToken, auth.ErrWrongTokenType},
		http.StatusUnauthorized, MsgInvalidRefreshToken},
	{[]error{service.ErrUserNotFound}, http.StatusUnauthorized, MsgLoginRequired},
	{[]error{domain.ErrUnauthorized}, http.StatusUnauthorized, MsgLoginRequired},

	{[]error{store.ErrEmailExists}, http.StatusConflict, MsgEmailExists},
	{[]error{store.ErrUserNotFound}, http.StatusNotFound, "User not found"},
	{[]error{store.ErrInvalidEntity, domain.ErrValidation}, http.StatusBadRequest, "Invalid entity data"},

	{[]error{paystack.ErrPaymentUnavailable}, http.StatusServiceUnavailable, MsgPaymentUnavailable},
	{[]error{paystack.ErrUnreachable}, http.StatusBadGateway, MsgPaymentUnreachable},
	{[]error{paystack.ErrUnexpectedResponse}, http.StatusBadGateway, MsgPaymentUnexpected},
	{[]error{paystack.ErrPaymentRejected}, http.StatusBadGateway, MsgPaymentRejected},
	{[]error{service.ErrPaymentNotSuccessful, service.ErrPaymentMismatch}, http.StatusPaymentRequired, MsgVerificationFailed},
	{[]error{service.ErrMissingReference}, http.StatusBadRequest, MsgMissingReference},

	{[]error{context.DeadlineExceeded}, http.StatusGatewayTimeout, MsgTimeout},
}

func lookupError(err error) (int, string) {
	// The quota message carries the configured price, so it comes from the error.
	var quotaErr *service.QuotaError
	if errors.As(err, &quotaErr) {
		return http.StatusPaymentRequired, quotaErr.Error()
	}
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if errors.Is(err, target) {
				return m.status, m.message
			}
		}
	}
	return http.StatusInternalServerError, MsgUnexpected
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	status, _ := lookupError(err)
	return status
}

// GetSafeErrorMessage returns a user-facing message for err. Unknown errors
// get a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}
	_, msg := lookupError(err)
	return msg
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted detail. A non-empty fallback replaces the generic message for
// errors with no mapping.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := lookupError(err)
	if status == http.StatusInternalServerError && fallback != "" {
		msg = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusPaymentRequired || status == http.StatusServiceUnavailable {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err, opts...)
}

// SanitizeValidationError turns validator errors into "Invalid <field>: <reason>".
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}
	fe := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
