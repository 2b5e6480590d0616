// Package domain defines the core entities of studygen: generation modes,
// flashcards, quiz questions, users with their prompt quota and subscription
// state, subscription prices and recorded payments, together with the domain
// errors shared across layers.
package domain
