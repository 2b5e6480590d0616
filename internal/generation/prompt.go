package generation

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/studygen/internal/domain"
)

//go:embed prompts/*.tmpl
var defaultPrompts embed.FS

// promptData is the value templates are executed with.
type promptData struct {
	Text  string
	Count int
}

// PromptBuilder renders the prompt for each generation mode.
type PromptBuilder struct {
	templates map[domain.Mode]*template.Template
	counts    map[domain.Mode]int
}

// NewPromptBuilder loads the prompt templates. Files named flashcards.tmpl or
// quiz.tmpl in overrideDir replace the built-in ones; an empty overrideDir
// uses the built-ins only.
func NewPromptBuilder(overrideDir string, flashcardCount, quizCount int) (*PromptBuilder, error) {
	if flashcardCount < 1 || quizCount < 1 {
		return nil, fmt.Errorf("%w: item counts must be positive", ErrInvalidConfig)
	}

	b := &PromptBuilder{
		templates: make(map[domain.Mode]*template.Template, 2),
		counts: map[domain.Mode]int{
			domain.ModeFlashcards: flashcardCount,
			domain.ModeQuiz:       quizCount,
		},
	}

	var override fs.FS
	if overrideDir != "" {
		info, err := os.Stat(overrideDir)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: prompt template dir %q is not a directory", ErrInvalidConfig, overrideDir)
		}
		override = os.DirFS(overrideDir)
	}

	for _, mode := range []domain.Mode{domain.ModeFlashcards, domain.ModeQuiz} {
		name := mode.String() + ".tmpl"
		src, err := readTemplate(override, name)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(name).Option("missingkey=error").Parse(src)
		if err != nil {
			return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, name, err)
		}
		b.templates[mode] = tmpl
	}

	return b, nil
}

func readTemplate(override fs.FS, name string) (string, error) {
	if override != nil {
		data, err := fs.ReadFile(override, name)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, name, err)
		}
	}
	data, err := defaultPrompts.ReadFile("prompts/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: built-in template %s: %v", ErrInvalidConfig, name, err)
	}
	return string(data), nil
}

// Build renders the prompt for mode with text embedded.
func (b *PromptBuilder) Build(mode domain.Mode, text string) (string, error) {
	tmpl, ok := b.templates[mode]
	if !ok {
		return "", domain.ErrInvalidMode
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, promptData{Text: text, Count: b.counts[mode]}); err != nil {
		return "", fmt.Errorf("%w: render %s prompt: %v", ErrGenerationFailed, mode, err)
	}
	return sb.String(), nil
}
