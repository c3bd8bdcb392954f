package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"
)

//go:embed templates/*
var templateFiles embed.FS

// Shared templates parsed alongside every page
const (
	layoutTemplate   = "layout.html"
	partialsTemplate = "partials.html"
)

// pageSet maps a page file name to its parsed template, layout included
type pageSet map[string]*template.Template

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"title":       titleCase,
	"statusClass": statusClass,
}

// ParseTemplate parses one page with the shared layout and partials
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, partialsTemplate, name)
}

func parsePages() (pageSet, error) {
	names, err := fs.Glob(TemplateFilesFS(), "*.html")
	if err != nil {
		return nil, err
	}
	pages := make(pageSet, len(names))
	for _, name := range names {
		if name == layoutTemplate || name == partialsTemplate {
			continue
		}
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// render writes a full page, or only its content block for htmx requests
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, status int, data PageData) {
	tmpl, ok := s.pages[page]
	if !ok {
		hlog.FromRequest(r).Error().Str("page", page).Msg("unknown page template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	block := "layout"
	if isHTMXRequest(r) {
		block = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, block, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func titleCase(v any) string {
	str := strings.ReplaceAll(fmt.Sprint(v), "_", " ")
	if str == "" {
		return ""
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// statusClass maps a record status onto a badge colour
func statusClass(v any) string {
	switch strings.ToLower(fmt.Sprint(v)) {
	case "active", "completed", "approved", "paid", "refunded", "available":
		return "badge-success"
	case "pending", "in_progress", "held", "partially_refunded", "unpaid":
		return "badge-warning"
	case "failed", "rejected", "cancelled", "terminated", "expired", "urgent", "high":
		return "badge-danger"
	default:
		return "badge-muted"
	}
}
