package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geoleowills/SQL-Library-Manager/internal/logging"
	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/pagination"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
)

const (
	viewError    = "error"
	viewNotFound = "page_not_found"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

type ListView struct {
	Title  string
	Search string
	Books  []model.Book
	Meta   pagination.Meta
	Pages  []PageLink
	Prev   string
	Next   string
}

type PageLink struct {
	Number  int
	URL     string
	Current bool
}

type FormView struct {
	Title  string
	Book   model.Draft
	Action string
	Errors []model.FieldError
}

type ErrorView struct {
	Title   string
	Status  int
	Message string
	Detail  string
}

func newListView(filter search.Filter, meta pagination.Meta, books []model.Book) ListView {
	v := ListView{
		Title:  titleBooks,
		Search: filter.Term(),
		Books:  books,
		Meta:   meta,
		Pages:  make([]PageLink, 0, len(meta.Pages)),
	}

	for _, p := range meta.Pages {
		v.Pages = append(v.Pages, PageLink{
			Number:  p,
			URL:     pageURL(filter, meta.Limit, p),
			Current: p == meta.Page,
		})
	}
	if meta.HasPrev {
		v.Prev = pageURL(filter, meta.Limit, min(meta.Page-1, max(meta.PageCount, 1)))
	}
	if meta.HasNext {
		v.Next = pageURL(filter, meta.Limit, meta.Page+1)
	}

	return v
}

// pageURL links to another page of the same search, keeping a non-default limit.
func pageURL(filter search.Filter, limit, page int) string {
	q := url.Values{}
	if !filter.MatchAll() {
		q.Set("search", filter.Term())
	}
	if limit != pagination.DefaultLimit {
		q.Set("limit", strconv.Itoa(limit))
	}
	q.Set("page", strconv.Itoa(page))

	return booksPath + "?" + q.Encode()
}

func newFormView(title string, draft model.Draft, action string) FormView {
	return FormView{
		Title:  title,
		Book:   draft,
		Action: action,
		Errors: draft.FieldErrors(),
	}
}

// renderServerError answers with the error page, exposing the error text.
func renderServerError(c *gin.Context, logger *slog.Logger, err error) {
	logger.ErrorContext(c.Request.Context(), "request failed",
		logging.AttrError, err,
		logging.AttrRequestID, c.GetString(ctxKeyRequestID),
	)

	c.HTML(http.StatusInternalServerError, viewError, ErrorView{
		Title:   "Server Error",
		Status:  http.StatusInternalServerError,
		Message: "Sorry! There was an unexpected error on the server.",
		Detail:  err.Error(),
	})
}
