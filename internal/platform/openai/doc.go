// Package openai implements generation.Completer on any OpenAI-compatible
// chat completions endpoint using github.com/sashabaranov/go-openai.
package openai
