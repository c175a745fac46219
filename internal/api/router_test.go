package api_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoleowills/SQL-Library-Manager/internal/api"
	"github.com/geoleowills/SQL-Library-Manager/internal/logging"
	"github.com/geoleowills/SQL-Library-Manager/internal/store/gormstore"
	"github.com/geoleowills/SQL-Library-Manager/internal/store/storetest"
)

func newApp(t *testing.T) (*gin.Engine, *gormstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := gormstore.Open(filepath.Join(t.TempDir(), "books.db"), gormstore.WithLogger(logging.Discard()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	h := api.NewBookHandler(s, logging.Discard(), 3)
	return api.NewRouter(h, api.RouterConfig{Logger: logging.Discard()}), s
}

func do(r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApp_ListPaginatesStoredBooks(t *testing.T) {
	r, s := newApp(t)
	storetest.Seed(t, s, 25)

	w := do(r, http.MethodGet, "/books?page=3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Book 21")
	assert.Contains(t, body, "Book 25")
	assert.NotContains(t, body, "Book 20")
	assert.Contains(t, body, "Showing 21&ndash;25 of 25 books")
}

func TestApp_LimitIsClamped(t *testing.T) {
	r, s := newApp(t)
	storetest.Seed(t, s, 60)

	w := do(r, http.MethodGet, "/books?limit=500", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book 50")
	assert.NotContains(t, w.Body.String(), "Book 51")
}

func TestApp_CreateUpdateDeleteRoundTrip(t *testing.T) {
	r, s := newApp(t)

	w := do(r, http.MethodPost, "/books/new", url.Values{"title": {"Dune"}, "author": {"Frank Herbert"}, "year": {"1965"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	storetest.AssertCount(t, s, 1)

	w = do(r, http.MethodGet, "/books?search=herbert", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `href="/books/1"`)

	w = do(r, http.MethodPost, "/books/1", url.Values{"title": {"Dune Messiah"}, "author": {"Frank Herbert"}, "year": {"1969"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = do(r, http.MethodGet, "/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Dune Messiah"`)
	assert.Contains(t, w.Body.String(), `value="1969"`)

	w = do(r, http.MethodPost, "/books/1/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)
	storetest.AssertCount(t, s, 0)

	w = do(r, http.MethodPost, "/books/1/delete", url.Values{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_InvalidCreateStoresNothing(t *testing.T) {
	r, s := newApp(t)

	w := do(r, http.MethodPost, "/books/new", url.Values{"title": {""}, "author": {""}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Oooops!")
	storetest.AssertCount(t, s, 0)
}

func TestApp_SearchFindsAccentedTitles(t *testing.T) {
	r, _ := newApp(t)

	w := do(r, http.MethodPost, "/books/new", url.Values{"title": {"Émile"}, "author": {"Rousseau"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	for _, term := range []string{"Émile", "émile", "ÉMILE"} {
		w = do(r, http.MethodGet, "/books?"+url.Values{"search": {term}}.Encode(), nil)
		require.Equal(t, http.StatusOK, w.Code, term)
		assert.Contains(t, w.Body.String(), `href="/books/1"`, term)
	}
}

func TestApp_OversizedYearIsAFieldError(t *testing.T) {
	r, s := newApp(t)

	w := do(r, http.MethodPost, "/books/new", url.Values{"title": {"Emma"}, "author": {"Jane Austen"}, "year": {"99999999999"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please provide a valid number for &#39;Year&#39;")
	storetest.AssertCount(t, s, 0)
}
