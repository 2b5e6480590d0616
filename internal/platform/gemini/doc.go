// Package gemini implements generation.Completer on Google's Gemini models
// through the google.golang.org/genai SDK.
package gemini
