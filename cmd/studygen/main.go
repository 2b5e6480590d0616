// Command studygen generates flashcards and quizzes from study text using a
// studygen server.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var alerted *alertedError
		if !errors.As(err, &alerted) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
