// Package generation turns study text into flashcards and quiz questions
// using a large language model.
//
// A Generator is the boundary the service layer depends on. LLMGenerator
// implements it on top of any Completer (the Gemini and OpenAI-compatible
// clients in internal/platform), adding prompt templating, retries for
// transient failures and parsing of the model's JSON or plain-text output.
package generation
