// Package views renders the server-side HTML pages. Every page is parsed
// together with layout.html into its own template set.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Files starting with "_" hold shared partials and are not pages.
const partialPrefix = "_"

// UserView is what templates may know about the signed-in user.
type UserView struct {
	ID       uint
	Username string
	Email    string
	Role     string
	IsAdmin  bool
}

type Page struct {
	Title    string
	User     *UserView
	Messages []string
	Errors   []string
	CSRF     string
	Data     map[string]any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"lineTotal": func(rate float64, days int) float64 {
		return rate * float64(days)
	},
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	},
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	shared := []string{layoutFile}
	var pages []string
	for _, f := range files {
		switch {
		case f == layoutFile:
		case strings.HasPrefix(path.Base(f), partialPrefix):
			shared = append(shared, f)
		default:
			pages = append(pages, f)
		}
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, f := range pages {
		name := strings.TrimSuffix(path.Base(f), ".html")
		patterns := append(append([]string{}, shared...), f)
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, patterns...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

type Pager struct {
	Page    int
	Size    int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

func NewPager(page, size int, total int64) *Pager {
	return &Pager{
		Page:    page,
		Size:    size,
		HasPrev: page > 1,
		HasNext: int64(page*size) < total,
		Prev:    page - 1,
		Next:    page + 1,
	}
}
