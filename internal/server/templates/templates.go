// Package templates holds the embedded HTML template set for the admin UI.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strconv"
)

//go:embed *.tmpl
var files embed.FS

// Funcs are the helpers available inside every template.
var Funcs = template.FuncMap{
	"fmt1": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
	"fmt2": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"money": func(v float64) string {
		return fmt.Sprintf("₹ %.2f", v)
	},
}

// Must parses the embedded template set or panics.
func Must() *template.Template {
	return template.Must(template.New("").Funcs(Funcs).ParseFS(files, "*.tmpl"))
}
