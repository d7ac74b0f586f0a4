// Package web embeds the HTML templates and static assets served by the
// application.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// FuncMap holds the helpers available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"year": func() int { return time.Now().Year() },
		"inc":  func(i int) int { return i + 1 },
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"derefStr": func(p *string) string {
			if p == nil {
				return ""
			}
			return *p
		},
		"join":  strings.Join,
		"upper": strings.ToUpper,
	}
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates panics when a template fails to parse.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static serves the embedded static directory.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
