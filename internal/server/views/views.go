// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/mamadbah2/hivetool/internal/domain/models"
)

//go:embed templates/*.tmpl
var files embed.FS

// Template names rendered by the handlers.
const (
	List   = "list.tmpl"
	Form   = "form.tmpl"
	Login  = "login.tmpl"
	Signup = "signup.tmpl"
)

// NavItem is a link in the page header.
type NavItem struct {
	Title string
	Path  string
}

func nav() []NavItem {
	items := make([]NavItem, 0, len(models.Kinds()))
	for _, k := range models.Kinds() {
		info := models.Info(k)
		items = append(items, NavItem{Title: info.ListTitle, Path: info.ListPath})
	}
	return items
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(models.DateLayout)
}

// Load parses every template with the shared helpers.
func Load() (*template.Template, error) {
	funcs := template.FuncMap{
		"date": formatDate,
		"nav":  nav,
		"value": func(values map[string]string, name string) string {
			return values[name]
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
