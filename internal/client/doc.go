// Package client is a typed HTTP client for the studygen server. Generate
// implements ui.GenerateClient.
package client
