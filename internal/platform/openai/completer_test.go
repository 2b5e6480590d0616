package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/studygen/internal/config"
	"github.com/phrazzld/studygen/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompleter(t *testing.T, handler http.HandlerFunc) *Completer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewCompleter(nil, config.LLMConfig{
		Provider:      "openai",
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: server.URL + "/v1/",
		ModelName:     "gpt-4o-mini",
	})
	require.NoError(t, err)
	return c
}

func completionBody(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{"index": 0, "finish_reason": finish, "message": map[string]any{"role": "assistant", "content": content}}},
		"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
}

func TestCompleter_Complete(t *testing.T) {
	var gotReq map[string]any
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completionBody(`{"flashcards":[]}`, "stop"))
	})

	out, err := c.Complete(context.Background(), "make cards")
	require.NoError(t, err)
	assert.Equal(t, `{"flashcards":[]}`, out)

	assert.Equal(t, "gpt-4o-mini", gotReq["model"])
	format, ok := gotReq["response_format"].(map[string]any)
	require.True(t, ok, "response_format should be set")
	assert.Equal(t, "json_object", format["type"])
	msgs, ok := gotReq["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "make cards", msgs[1].(map[string]any)["content"])
}

func TestCompleter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		expected error
	}{
		{"rate limited", http.StatusTooManyRequests, map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}}, generation.ErrTransientFailure},
		{"server error", http.StatusBadGateway, map[string]any{"error": map[string]any{"message": "upstream", "type": "server"}}, generation.ErrTransientFailure},
		{"bad request", http.StatusBadRequest, map[string]any{"error": map[string]any{"message": "bad", "type": "invalid_request_error"}}, generation.ErrGenerationFailed},
		{"content filter", http.StatusOK, completionBody("", "content_filter"), generation.ErrContentBlocked},
		{"empty content", http.StatusOK, completionBody("  ", "stop"), generation.ErrInvalidResponse},
		{"no choices", http.StatusOK, map[string]any{"id": "x", "choices": []any{}}, generation.ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(tc.body)
			})
			_, err := c.Complete(context.Background(), "prompt")
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestNewCompleterValidation(t *testing.T) {
	_, err := NewCompleter(nil, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewCompleter(nil, config.LLMConfig{OpenAIAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
