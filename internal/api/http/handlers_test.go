package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vadimbarashkov/page-analyzer/internal/database"
	"github.com/vadimbarashkov/page-analyzer/internal/fetcher"
	"github.com/vadimbarashkov/page-analyzer/internal/models"
)

type MockPageService struct {
	mock.Mock
}

func (s *MockPageService) AddURL(ctx context.Context, name string) (*models.URL, bool, error) {
	args := s.Called(ctx, name)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Bool(1), args.Error(2)
}

func (s *MockPageService) GetURL(ctx context.Context, id int64) (*models.URL, error) {
	args := s.Called(ctx, id)
	url, _ := args.Get(0).(*models.URL)
	return url, args.Error(1)
}

func (s *MockPageService) ListURLs(ctx context.Context) ([]models.URLSummary, error) {
	args := s.Called(ctx)
	summaries, _ := args.Get(0).([]models.URLSummary)
	return summaries, args.Error(1)
}

func (s *MockPageService) ListChecks(ctx context.Context, urlID int64) ([]models.URLCheck, error) {
	args := s.Called(ctx, urlID)
	checks, _ := args.Get(0).([]models.URLCheck)
	return checks, args.Error(1)
}

func (s *MockPageService) RunCheck(ctx context.Context, url *models.URL) (*models.URLCheck, error) {
	args := s.Called(ctx, url)
	check, _ := args.Get(0).(*models.URLCheck)
	return check, args.Error(1)
}

func setupRouter(t testing.TB) (http.Handler, *MockPageService) {
	t.Helper()

	svc := new(MockPageService)
	flash := NewFlashStore([]byte("test-secret"))
	r := NewRouter(httplog.NewLogger("test"), svc, flash)

	t.Cleanup(func() {
		svc.AssertExpectations(t)
	})

	return r, svc
}

func get(h http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestHandleIndex(t *testing.T) {
	r, _ := setupRouter(t)

	w := get(r, "/", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/urls"`)
}

func TestHandleCreateURL(t *testing.T) {
	t.Run("empty submission", func(t *testing.T) {
		r, _ := setupRouter(t)

		w := postForm(r, "/urls", url.Values{"url": {""}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "URL must not be empty")
	})

	t.Run("too long submission", func(t *testing.T) {
		r, _ := setupRouter(t)

		raw := "https://example.com/" + strings.Repeat("a", 280)

		w := postForm(r, "/urls", url.Values{"url": {raw}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "URL must not exceed 255 characters")
	})

	t.Run("invalid submission preserves input", func(t *testing.T) {
		r, _ := setupRouter(t)

		w := postForm(r, "/urls", url.Values{"url": {"not a url"}})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid URL")
		assert.Contains(t, w.Body.String(), `value="not a url"`)
	})

	t.Run("new url is normalized and added", func(t *testing.T) {
		r, svc := setupRouter(t)

		svc.On("AddURL", mock.Anything, "https://example.com").Once().
			Return(&models.URL{ID: 1, Name: "https://example.com"}, true, nil)

		w := postForm(r, "/urls", url.Values{"url": {"HTTPS://Example.com/path?q=1"}})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/urls/1", w.Header().Get("Location"))
	})

	t.Run("duplicate redirects to existing", func(t *testing.T) {
		r, svc := setupRouter(t)

		svc.On("AddURL", mock.Anything, "https://example.com").Once().
			Return(&models.URL{ID: 7, Name: "https://example.com"}, false, nil)

		w := postForm(r, "/urls", url.Values{"url": {"https://example.com"}})

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/urls/7", w.Header().Get("Location"))
	})

	t.Run("service error yields 500 page", func(t *testing.T) {
		r, svc := setupRouter(t)

		svc.On("AddURL", mock.Anything, "https://example.com").Once().
			Return(nil, false, fmt.Errorf("service: %w", assert.AnError))

		w := postForm(r, "/urls", url.Values{"url": {"https://example.com"}})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHandleListURLs(t *testing.T) {
	r, svc := setupRouter(t)

	statusCode := 200
	svc.On("ListURLs", mock.Anything).Once().Return([]models.URLSummary{
		{
			URL:       models.URL{ID: 2, Name: "https://b.com"},
			LastCheck: &models.URLCheck{ID: 1, URLID: 2, StatusCode: &statusCode},
		},
		{URL: models.URL{ID: 1, Name: "https://a.com"}},
	}, nil)

	w := get(r, "/urls", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://b.com")
	assert.Contains(t, w.Body.String(), "https://a.com")
	assert.Contains(t, w.Body.String(), "200")
}

func TestHandleShowURL(t *testing.T) {
	t.Run("non-numeric id", func(t *testing.T) {
		r, _ := setupRouter(t)

		w := get(r, "/urls/abc", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("url not found", func(t *testing.T) {
		r, svc := setupRouter(t)

		svc.On("GetURL", mock.Anything, int64(99)).Once().
			Return(nil, fmt.Errorf("service: %w", database.ErrURLNotFound))

		w := get(r, "/urls/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Page not found")
	})

	t.Run("success with checks", func(t *testing.T) {
		r, svc := setupRouter(t)

		statusCode := 500
		svc.On("GetURL", mock.Anything, int64(1)).Once().
			Return(&models.URL{ID: 1, Name: "https://example.com"}, nil)
		svc.On("ListChecks", mock.Anything, int64(1)).Once().
			Return([]models.URLCheck{
				{ID: 1, URLID: 1, StatusCode: &statusCode, H1: "Oops", Title: "Err"},
			}, nil)

		w := get(r, "/urls/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://example.com")
		assert.Contains(t, w.Body.String(), "Oops")
		assert.Contains(t, w.Body.String(), "500")
	})
}

func TestHandleCheckURL(t *testing.T) {
	t.Run("url not found", func(t *testing.T) {
		r, svc := setupRouter(t)

		svc.On("GetURL", mock.Anything, int64(99)).Once().
			Return(nil, fmt.Errorf("service: %w", database.ErrURLNotFound))

		w := postForm(r, "/urls/99/check", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("connection failure redirects with danger flash", func(t *testing.T) {
		r, svc := setupRouter(t)

		target := &models.URL{ID: 1, Name: "https://unreachable.test"}
		svc.On("GetURL", mock.Anything, int64(1)).Return(target, nil)
		svc.On("RunCheck", mock.Anything, target).Once().
			Return(nil, fmt.Errorf("service: %w", fetcher.ErrConnectionFailed))
		svc.On("ListChecks", mock.Anything, int64(1)).Return([]models.URLCheck{}, nil)

		w := postForm(r, "/urls/1/check", nil)

		require.Equal(t, http.StatusFound, w.Code)
		require.Equal(t, "/urls/1", w.Header().Get("Location"))

		// Follow the redirect with the session cookie: the flash shows once.
		w2 := get(r, "/urls/1", w.Result().Cookies())

		assert.Equal(t, http.StatusOK, w2.Code)
		assert.Contains(t, w2.Body.String(), "Failed to check the page")
		assert.Contains(t, w2.Body.String(), "alert-danger")

		// A second render must not show it again.
		w3 := get(r, "/urls/1", w2.Result().Cookies())

		assert.NotContains(t, w3.Body.String(), "Failed to check the page")
	})

	t.Run("upstream error response records check and flashes warning", func(t *testing.T) {
		r, svc := setupRouter(t)

		target := &models.URL{ID: 1, Name: "https://example.com"}
		statusCode := 500
		svc.On("GetURL", mock.Anything, int64(1)).Return(target, nil)
		svc.On("RunCheck", mock.Anything, target).Once().
			Return(&models.URLCheck{ID: 1, URLID: 1, StatusCode: &statusCode}, nil)
		svc.On("ListChecks", mock.Anything, int64(1)).Return([]models.URLCheck{}, nil)

		w := postForm(r, "/urls/1/check", nil)

		require.Equal(t, http.StatusFound, w.Code)

		w2 := get(r, "/urls/1", w.Result().Cookies())

		assert.Contains(t, w2.Body.String(), "Page checked, but the server responded with an error")
		assert.Contains(t, w2.Body.String(), "alert-warning")
	})

	t.Run("successful check flashes success", func(t *testing.T) {
		r, svc := setupRouter(t)

		target := &models.URL{ID: 1, Name: "https://example.com"}
		statusCode := 200
		svc.On("GetURL", mock.Anything, int64(1)).Return(target, nil)
		svc.On("RunCheck", mock.Anything, target).Once().
			Return(&models.URLCheck{ID: 1, URLID: 1, StatusCode: &statusCode}, nil)
		svc.On("ListChecks", mock.Anything, int64(1)).Return([]models.URLCheck{}, nil)

		w := postForm(r, "/urls/1/check", nil)

		require.Equal(t, http.StatusFound, w.Code)

		w2 := get(r, "/urls/1", w.Result().Cookies())

		assert.Contains(t, w2.Body.String(), "Page checked successfully")
		assert.Contains(t, w2.Body.String(), "alert-success")
	})
}
