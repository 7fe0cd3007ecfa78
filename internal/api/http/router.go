package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/page-analyzer/internal/models"
)

// PageService is the application surface the handlers are built on.
type PageService interface {
	AddURL(ctx context.Context, name string) (*models.URL, bool, error)
	GetURL(ctx context.Context, id int64) (*models.URL, error)
	ListURLs(ctx context.Context) ([]models.URLSummary, error)
	ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error)
	RunCheck(ctx context.Context, url *models.URL) (*models.URLCheck, error)
}

func NewRouter(logger *httplog.Logger, svc PageService, flash *FlashStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	tmpl := mustLoadTemplates()

	r.Get("/", handleIndex(tmpl))

	r.Route("/urls", func(r chi.Router) {
		r.Post("/", handleCreateURL(tmpl, svc, flash))
		r.Get("/", handleListURLs(tmpl, svc))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleShowURL(tmpl, svc, flash))
			r.Post("/check", handleCheckURL(tmpl, svc, flash))
		})
	})

	return r
}
