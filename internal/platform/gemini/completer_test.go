package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/studygen/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp      *genai.GenerateContentResponse
	err       error
	gotModel  string
	gotConfig *genai.GenerateContentConfig
	gotText   string
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotConfig = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.gotText = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func TestCompleter_Complete(t *testing.T) {
	models := &fakeModels{resp: textResponse(`{"flashcards":`, `[]}`)}
	c, err := NewCompleterWithModels(models, "gemini-2.0-flash", nil)
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "make cards")
	require.NoError(t, err)
	assert.Equal(t, `{"flashcards":[]}`, out)
	assert.Equal(t, "gemini-2.0-flash", models.gotModel)
	assert.Equal(t, "make cards", models.gotText)
	require.NotNil(t, models.gotConfig)
	assert.Equal(t, "application/json", models.gotConfig.ResponseMIMEType)
}

func TestCompleter_Errors(t *testing.T) {
	tests := []struct {
		name     string
		models   *fakeModels
		expected error
	}{
		{
			name: "safety finish reason",
			models: &fakeModels{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			expected: generation.ErrContentBlocked,
		},
		{
			name: "blocked prompt",
			models: &fakeModels{resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "SAFETY"},
			}},
			expected: generation.ErrContentBlocked,
		},
		{
			name:     "no candidates",
			models:   &fakeModels{resp: &genai.GenerateContentResponse{}},
			expected: generation.ErrInvalidResponse,
		},
		{
			name:     "empty text",
			models:   &fakeModels{resp: textResponse("")},
			expected: generation.ErrInvalidResponse,
		},
		{
			name:     "rate limited",
			models:   &fakeModels{err: genai.APIError{Code: 429, Message: "quota"}},
			expected: generation.ErrTransientFailure,
		},
		{
			name:     "bad request",
			models:   &fakeModels{err: genai.APIError{Code: 400, Message: "bad"}},
			expected: generation.ErrGenerationFailed,
		},
		{
			name:     "network failure",
			models:   &fakeModels{err: errors.New("connection reset")},
			expected: generation.ErrTransientFailure,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCompleterWithModels(tc.models, "m", nil)
			require.NoError(t, err)
			_, err = c.Complete(context.Background(), "prompt")
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestNewCompleterValidation(t *testing.T) {
	_, err := NewCompleterWithModels(nil, "m", nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewCompleterWithModels(&fakeModels{}, "", nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
