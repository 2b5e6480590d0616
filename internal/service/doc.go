// Package service holds the application use cases that sit between the HTTP
// handlers and the stores: generating study material against a user's quota
// and running paid subscriptions.
package service
