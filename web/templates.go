package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDateTime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04")
	},
}

// Templates parses the embedded page templates. Each page is a named template ("index", "details",
// "create", "edit", "delete") rendered with a value exposing .CsrfField and .Model.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
