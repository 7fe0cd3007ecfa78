package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = []string{"index.html", "urls.html", "url.html", "error.html"}

var funcMap = template.FuncMap{
	"fmtTime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"statusCode": func(p *int) string {
		if p == nil {
			return ""
		}
		return strconv.Itoa(*p)
	},
}

// templates holds the parsed page templates, each combined with the
// shared layout.
type templates struct {
	pages map[string]*template.Template
}

func mustLoadTemplates() *templates {
	pages := make(map[string]*template.Template, len(pageFiles))

	for _, name := range pageFiles {
		pages[name] = template.Must(template.New("layout.html").
			Funcs(funcMap).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}

	return &templates{pages: pages}
}

// render executes the named page into a buffer before writing so a
// template fault cannot leak a half-written page with a success status.
func (t *templates) render(w http.ResponseWriter, statusCode int, name string, data any) {
	tmpl, ok := t.pages[name]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = buf.WriteTo(w)
}

func (t *templates) renderError(w http.ResponseWriter, statusCode int) {
	msg := "Something went wrong."
	if statusCode == http.StatusNotFound {
		msg = "Page not found."
	}

	t.render(w, statusCode, "error.html", errorData{
		Status:  statusCode,
		Message: msg,
	})
}
