// Package ui drives the studygen page document. A Page is a parsed HTML
// document holding the elements generation writes into; a Controller reads
// the input text, calls the /generate endpoint and renders the result into
// the page. The same Page type renders the index page served by the HTTP
// server.
package ui
