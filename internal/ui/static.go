package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

// ScriptPath is where the index page loads its script from.
const ScriptPath = "/static/app.js"

//go:embed assets/app.js
var staticFiles embed.FS

// StaticHandler serves the page script under /static/.
func StaticHandler() http.Handler {
	assets, err := fs.Sub(staticFiles, "assets")
	if err != nil {
		// ALLOW-PANIC: the embedded directory is fixed at build time
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(assets)))
}
