// Package view renders the server-side HTML pages from templates
// embedded in the binary, satisfying echo.Renderer.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

// Renderer parses the embedded template set once and renders pages by
// file name ("login.html", "vehicle.html", ...).
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"usd": func(v float64) string {
			return printer.Sprintf("$%.0f", v)
		},
		"commas": func(n int) string {
			return printer.Sprintf("%d", n)
		},
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{templates: t}, nil
}

// Render satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
