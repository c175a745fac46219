// Package pagination computes offsets, page counts and the window of page
// links shown under the book list.
package pagination

import "strconv"

const (
	DefaultLimit  = 10
	MinLimit      = 1
	MaxLimit      = 50
	DefaultRadius = 3
)

// Request is a clamped page/limit pair. Page is 1-based.
type Request struct {
	Page  int
	Limit int
}

// Parse reads the page and limit query values. Missing or malformed values
// fall back to the defaults; limits outside [MinLimit, MaxLimit] are clamped.
func Parse(page, limit string) Request {
	p, err := strconv.Atoi(page)
	if err != nil {
		p = 1
	}
	l, err := strconv.Atoi(limit)
	if err != nil {
		l = DefaultLimit
	}
	return NewRequest(p, l)
}

func NewRequest(page, limit int) Request {
	if page < 1 {
		page = 1
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Request{Page: page, Limit: limit}
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.Limit
}

type Meta struct {
	Page      int
	Limit     int
	Offset    int
	ItemCount int
	PageCount int
	Pages     []int

	HasPrev     bool
	HasNext     bool
	ShowingFrom int
	ShowingTo   int
}

// Compute derives the display metadata for req given the total number of
// matching items. PageCount and Pages always follow the real total, even
// when req.Page lies beyond the last page.
func Compute(req Request, total, radius int) Meta {
	if total < 0 {
		total = 0
	}
	pageCount := PageCount(total, req.Limit)

	m := Meta{
		Page:      req.Page,
		Limit:     req.Limit,
		Offset:    req.Offset(),
		ItemCount: total,
		PageCount: pageCount,
		Pages:     Window(req.Page, pageCount, radius),
		HasPrev:   req.Page > 1,
		HasNext:   req.Page < pageCount,
	}

	if m.Offset < total {
		m.ShowingFrom = m.Offset + 1
		m.ShowingTo = min(m.Offset+req.Limit, total)
	}

	return m
}

func PageCount(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Window returns up to 2*radius+1 page numbers around current, clipped to
// [1, pageCount]. Near either end the window slides so it stays full.
func Window(current, pageCount, radius int) []int {
	if pageCount <= 0 {
		return []int{}
	}
	if radius < 0 {
		radius = 0
	}

	current = max(1, min(current, pageCount))
	start, end := current-radius, current+radius

	if start < 1 {
		end += 1 - start
		start = 1
	}
	if end > pageCount {
		start -= end - pageCount
		end = pageCount
	}
	start = max(start, 1)

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
