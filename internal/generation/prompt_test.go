package generation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/studygen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilderDefaults(t *testing.T) {
	b, err := NewPromptBuilder("", 5, 3)
	require.NoError(t, err)

	prompt, err := b.Build(domain.ModeFlashcards, "Photosynthesis converts light to energy.")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Create 5 study flashcards")
	assert.Contains(t, prompt, "Photosynthesis converts light to energy.")

	prompt, err = b.Build(domain.ModeQuiz, "Mitochondria")
	require.NoError(t, err)
	assert.Contains(t, prompt, "quiz of 3 questions")
	assert.Contains(t, prompt, "Mitochondria")

	_, err = b.Build(domain.Mode("essay"), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestPromptBuilderOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quiz.tmpl"), []byte("QUIZ {{.Count}}: {{.Text}}"), 0o600))

	b, err := NewPromptBuilder(dir, 5, 4)
	require.NoError(t, err)

	prompt, err := b.Build(domain.ModeQuiz, "cells")
	require.NoError(t, err)
	assert.Equal(t, "QUIZ 4: cells", prompt)

	prompt, err = b.Build(domain.ModeFlashcards, "cells")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Create 5 study flashcards", "missing override falls back to built-in")
}

func TestPromptBuilderErrors(t *testing.T) {
	_, err := NewPromptBuilder("", 0, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewPromptBuilder(filepath.Join(t.TempDir(), "missing"), 5, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flashcards.tmpl"), []byte("{{.Text"), 0o600))
	_, err = NewPromptBuilder(dir, 5, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
