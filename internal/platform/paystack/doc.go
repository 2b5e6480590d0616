// Package paystack is a small client for the Paystack transactions API,
// covering what subscriptions need: initializing a checkout and verifying
// the resulting transaction.
package paystack
