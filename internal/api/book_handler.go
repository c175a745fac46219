package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/pagination"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
	"github.com/geoleowills/SQL-Library-Manager/internal/store"
)

const (
	booksPath   = "/books"
	newBookPath = "/books/new"

	titleBooks  = "Books"
	titleNew    = "New Book"
	titleUpdate = "Update Book"

	viewIndex  = "index"
	viewNew    = "new_book"
	viewUpdate = "update_book"
)

type BookHandler struct {
	store  store.Store
	logger *slog.Logger
	radius int
}

func NewBookHandler(s store.Store, logger *slog.Logger, radius int) *BookHandler {
	if radius < 0 {
		radius = pagination.DefaultRadius
	}
	return &BookHandler{store: s, logger: logger, radius: radius}
}

func (h *BookHandler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, booksPath)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	filter := search.Build(c.Query("search"))
	req := pagination.Parse(c.Query("page"), c.Query("limit"))

	total, err := h.store.Count(ctx, filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	books, err := h.store.List(ctx, store.ListOptions{Filter: filter, Offset: req.Offset(), Limit: req.Limit})
	if err != nil {
		h.fail(c, err)
		return
	}

	meta := pagination.Compute(req, total, h.radius)
	c.HTML(http.StatusOK, viewIndex, newListView(filter, meta, books))
}

// Search only moves the term into the query string; the list handler runs it.
func (h *BookHandler) Search(c *gin.Context) {
	location := booksPath
	if term := strings.TrimSpace(c.PostForm("search")); term != "" {
		location += "?" + url.Values{"search": {term}}.Encode()
	}
	c.Redirect(http.StatusSeeOther, location)
}

func (h *BookHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, viewNew, newFormView(titleNew, model.NewDraft(model.Input{}), newBookPath))
}

func (h *BookHandler) Create(c *gin.Context) {
	var in model.Input
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, err)
		return
	}

	b, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		if draft, ok := model.NewDraft(in).WithError(err); ok {
			c.HTML(http.StatusOK, viewNew, newFormView(titleNew, draft, newBookPath))
			return
		}
		h.fail(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "book created", "id", b.ID)
	c.Redirect(http.StatusSeeOther, booksPath)
}

// Edit renders the update form. An unknown id is answered as a server error,
// unlike Update and Delete which answer 404.
func (h *BookHandler) Edit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	b, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, viewUpdate, newFormView(titleUpdate, model.DraftFromBook(b), bookPath(id)))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.NotFound(c)
		return
	}

	var in model.Input
	if err := c.ShouldBind(&in); err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.store.Update(c.Request.Context(), id, in); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.NotFound(c)
			return
		}

		draft := model.NewDraft(in)
		draft.ID = id
		if draft, ok := draft.WithError(err); ok {
			c.HTML(http.StatusOK, viewUpdate, newFormView(titleUpdate, draft, bookPath(id)))
			return
		}

		h.fail(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "book updated", "id", id)
	c.Redirect(http.StatusSeeOther, booksPath)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.NotFound(c)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.NotFound(c)
			return
		}
		h.fail(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "book deleted", "id", id)
	c.Redirect(http.StatusSeeOther, booksPath)
}

func (h *BookHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *BookHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, viewNotFound, ErrorView{
		Title:   "Page Not Found",
		Status:  http.StatusNotFound,
		Message: "Sorry! We couldn't find the page you were looking for.",
	})
}

func (h *BookHandler) fail(c *gin.Context, err error) {
	renderServerError(c, h.logger, err)
}

func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid id %q", model.ErrNotFound, raw)
	}
	return uint(id), nil
}

func bookPath(id uint) string {
	return booksPath + "/" + strconv.FormatUint(uint64(id), 10)
}
