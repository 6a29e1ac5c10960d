package http

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/go-chi/httplog/v2"
)

//go:embed welcome.html
var welcomeHTML string

var welcomeTmpl = template.Must(template.New("welcome").Parse(welcomeHTML))

type welcomePage struct {
	DocsURL string
}

func handleWelcome(docsURL string) http.HandlerFunc {
	const op = "adapter.delivery.http.handleWelcome"

	page := welcomePage{DocsURL: docsURL}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)

		if err := welcomeTmpl.Execute(w, page); err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
		}
	}
}
