package mocks

import (
	"context"

	"github.com/phrazzld/studygen/internal/platform/paystack"
)

// MockPaymentProvider implements service.PaymentProvider.
type MockPaymentProvider struct {
	InitializeTransactionFn func(ctx context.Context, req paystack.InitializeRequest) (*paystack.Checkout, error)
	VerifyTransactionFn     func(ctx context.Context, reference string) (*paystack.Transaction, error)

	LastInitialize paystack.InitializeRequest
}

// InitializeTransaction records req and returns a fixed checkout unless overridden.
func (m *MockPaymentProvider) InitializeTransaction(ctx context.Context, req paystack.InitializeRequest) (*paystack.Checkout, error) {
	m.LastInitialize = req
	if m.InitializeTransactionFn != nil {
		return m.InitializeTransactionFn(ctx, req)
	}
	return &paystack.Checkout{
		AuthorizationURL: "https://checkout.paystack.test/mock",
		AccessCode:       "mock",
		Reference:        "mock-ref",
	}, nil
}

// VerifyTransaction implements service.PaymentProvider.
func (m *MockPaymentProvider) VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error) {
	if m.VerifyTransactionFn != nil {
		return m.VerifyTransactionFn(ctx, reference)
	}
	return nil, paystack.ErrPaymentRejected
}
