// Package ui serves the browser front end: a single embedded page that
// talks to the JSON API.
package ui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/querypilot/querypilot/core/infrastructure/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler renders the embedded UI page
type Handler struct {
	tmpl *template.Template
	log  logging.Logger

	// DefaultDatabase pre-fills the database picker
	DefaultDatabase string
}

// NewHandler parses the embedded templates
func NewHandler(defaultDatabase string) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		tmpl:            tmpl,
		log:             logging.New("ui"),
		DefaultDatabase: defaultDatabase,
	}, nil
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "index.html", map[string]any{
		"DefaultDatabase": h.DefaultDatabase,
	}); err != nil {
		h.log.Errorf("Failed to render index: %v", err)
	}
}
