package paystack

import "errors"

var (
	// ErrPaymentUnavailable is returned when Paystack has no active payment
	// channel for the merchant. The condition is temporary.
	ErrPaymentUnavailable = errors.New("payment temporarily unavailable")

	// ErrPaymentRejected is returned when Paystack refuses a request.
	ErrPaymentRejected = errors.New("payment provider rejected the request")

	// ErrUnexpectedResponse is returned when a Paystack response cannot be
	// decoded or lacks required fields.
	ErrUnexpectedResponse = errors.New("unexpected payment provider response")

	// ErrUnreachable is returned when Paystack cannot be reached.
	ErrUnreachable = errors.New("failed to connect to payment provider")
)
