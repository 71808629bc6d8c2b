// Package web renders the dashboard page from embedded templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"SectorPulse/internal/domain/models"
	"SectorPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// IndexTemplate is the template name of the dashboard page.
const IndexTemplate = "index.tmpl"

// PageData feeds the dashboard page.
type PageData struct {
	Title   string
	Sectors []string
	MinDate time.Time
	MaxDate time.Time
	View    models.View
	WSPath  string
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("dashboard").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

var funcs = template.FuncMap{
	"date": util.FormatDate,
	"selected": func(s models.SelectionState, sector string) bool {
		return s.IsSelected(sector)
	},
}

var _ echo.Renderer = (*Renderer)(nil)
