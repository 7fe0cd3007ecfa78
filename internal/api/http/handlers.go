package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/page-analyzer/internal/database"
	"github.com/vadimbarashkov/page-analyzer/internal/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/models"
	"github.com/vadimbarashkov/page-analyzer/internal/urlutil"
)

const (
	msgURLAdded           = "Page added successfully"
	msgURLExists          = "Page already exists"
	msgCheckOK            = "Page checked successfully"
	msgCheckFailed        = "Failed to check the page"
	msgCheckUpstreamError = "Page checked, but the server responded with an error"
)

type indexData struct {
	URL    string
	Errors map[string][]string
	Flash  *Flash
}

type urlsData struct {
	URLs  []models.URLSummary
	Flash *Flash
}

type urlData struct {
	URL    *models.URL
	Checks []models.URLCheck
	Flash  *Flash
}

type errorData struct {
	Status  int
	Message string
	Flash   *Flash
}

func handleIndex(tmpl *templates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl.render(w, http.StatusOK, "index.html", indexData{})
	}
}

func handleCreateURL(tmpl *templates, svc PageService, flash *FlashStore) http.HandlerFunc {
	const op = "api.http.handleCreateURL"

	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.FormValue("url")

		if errs := urlutil.Validate(raw); len(errs) > 0 {
			tmpl.render(w, http.StatusUnprocessableEntity, "index.html", indexData{
				URL:    raw,
				Errors: errs,
			})
			return
		}

		name, err := urlutil.Normalize(raw)
		if err != nil {
			tmpl.render(w, http.StatusUnprocessableEntity, "index.html", indexData{
				URL:    raw,
				Errors: map[string][]string{urlutil.FieldName: {"Invalid URL"}},
			})
			return
		}

		url, created, err := svc.AddURL(r.Context(), name)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			tmpl.renderError(w, http.StatusInternalServerError)
			return
		}

		msg := msgURLAdded
		if !created {
			msg = msgURLExists
		}
		flash.Put(w, r, Flash{Level: flashSuccess, Text: msg})

		http.Redirect(w, r, fmt.Sprintf("/urls/%d", url.ID), http.StatusFound)
	}
}

func handleListURLs(tmpl *templates, svc PageService) http.HandlerFunc {
	const op = "api.http.handleListURLs"

	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := svc.ListURLs(r.Context())
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			tmpl.renderError(w, http.StatusInternalServerError)
			return
		}

		tmpl.render(w, http.StatusOK, "urls.html", urlsData{URLs: summaries})
	}
}

func handleShowURL(tmpl *templates, svc PageService, flash *FlashStore) http.HandlerFunc {
	const op = "api.http.handleShowURL"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			tmpl.renderError(w, http.StatusNotFound)
			return
		}

		url, err := svc.GetURL(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				tmpl.renderError(w, http.StatusNotFound)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			tmpl.renderError(w, http.StatusInternalServerError)
			return
		}

		checks, err := svc.ListChecks(r.Context(), url.ID)
		if err != nil {
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			tmpl.renderError(w, http.StatusInternalServerError)
			return
		}

		tmpl.render(w, http.StatusOK, "url.html", urlData{
			URL:    url,
			Checks: checks,
			Flash:  flash.Pop(w, r),
		})
	}
}

func handleCheckURL(tmpl *templates, svc PageService, flash *FlashStore) http.HandlerFunc {
	const op = "api.http.handleCheckURL"

	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			tmpl.renderError(w, http.StatusNotFound)
			return
		}

		url, err := svc.GetURL(r.Context(), id)
		if err != nil {
			if errors.Is(err, database.ErrURLNotFound) {
				tmpl.renderError(w, http.StatusNotFound)
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			tmpl.renderError(w, http.StatusInternalServerError)
			return
		}

		check, err := svc.RunCheck(r.Context(), url)
		switch {
		case errors.Is(err, fetcher.ErrConnectionFailed):
			// No response at all: nothing was persisted, redirect
			// straight back with a danger flash.
			flash.Put(w, r, Flash{Level: flashDanger, Text: msgCheckFailed})
		case err != nil:
			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			tmpl.renderError(w, http.StatusInternalServerError)
			return
		case check.StatusCode != nil && *check.StatusCode >= http.StatusBadRequest:
			flash.Put(w, r, Flash{Level: flashWarning, Text: msgCheckUpstreamError})
		default:
			flash.Put(w, r, Flash{Level: flashSuccess, Text: msgCheckOK})
		}

		http.Redirect(w, r, fmt.Sprintf("/urls/%d", url.ID), http.StatusFound)
	}
}
