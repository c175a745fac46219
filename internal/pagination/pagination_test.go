package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoleowills/SQL-Library-Manager/internal/pagination"
)

func Test_Parse(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		limit  string
		expect pagination.Request
	}{
		{name: "defaults", page: "", limit: "", expect: pagination.Request{Page: 1, Limit: 10}},
		{name: "explicit_values", page: "4", limit: "25", expect: pagination.Request{Page: 4, Limit: 25}},
		{name: "limit_above_max_is_clamped", page: "1", limit: "500", expect: pagination.Request{Page: 1, Limit: 50}},
		{name: "limit_below_min_is_clamped", page: "1", limit: "0", expect: pagination.Request{Page: 1, Limit: 1}},
		{name: "negative_limit_is_clamped", page: "1", limit: "-3", expect: pagination.Request{Page: 1, Limit: 1}},
		{name: "garbage_falls_back", page: "two", limit: "ten", expect: pagination.Request{Page: 1, Limit: 10}},
		{name: "page_zero", page: "0", limit: "10", expect: pagination.Request{Page: 1, Limit: 10}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, pagination.Parse(tc.page, tc.limit))
		})
	}
}

func Test_Request_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.NewRequest(1, 10).Offset())
	assert.Equal(t, 20, pagination.NewRequest(3, 10).Offset())
	assert.Equal(t, 150, pagination.NewRequest(4, 50).Offset())
}

func Test_PageCount(t *testing.T) {
	assert.Equal(t, 0, pagination.PageCount(0, 10))
	assert.Equal(t, 1, pagination.PageCount(1, 10))
	assert.Equal(t, 1, pagination.PageCount(10, 10))
	assert.Equal(t, 2, pagination.PageCount(11, 10))
	assert.Equal(t, 3, pagination.PageCount(25, 10))
	assert.Equal(t, 25, pagination.PageCount(25, 1))
}

func Test_Compute_ThirdPageOfTwentyFive(t *testing.T) {
	m := pagination.Compute(pagination.NewRequest(3, 10), 25, pagination.DefaultRadius)

	assert.Equal(t, 20, m.Offset)
	assert.Equal(t, 3, m.PageCount)
	assert.Equal(t, 25, m.ItemCount)
	assert.Equal(t, []int{1, 2, 3}, m.Pages)
	assert.True(t, m.HasPrev)
	assert.False(t, m.HasNext)
	assert.Equal(t, 21, m.ShowingFrom)
	assert.Equal(t, 25, m.ShowingTo)
}

func Test_Compute_Empty(t *testing.T) {
	m := pagination.Compute(pagination.NewRequest(1, 10), 0, pagination.DefaultRadius)

	assert.Equal(t, 0, m.PageCount)
	assert.Empty(t, m.Pages)
	assert.False(t, m.HasPrev)
	assert.False(t, m.HasNext)
	assert.Zero(t, m.ShowingFrom)
	assert.Zero(t, m.ShowingTo)
}

func Test_Compute_PageBeyondLast(t *testing.T) {
	m := pagination.Compute(pagination.NewRequest(9, 10), 25, pagination.DefaultRadius)

	assert.Equal(t, 80, m.Offset)
	assert.Equal(t, 3, m.PageCount)
	assert.Equal(t, []int{1, 2, 3}, m.Pages)
	assert.False(t, m.HasNext)
	assert.Zero(t, m.ShowingFrom)
}

func Test_Window(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		pageCount int
		radius    int
		expect    []int
	}{
		{name: "no_pages", current: 1, pageCount: 0, radius: 3, expect: []int{}},
		{name: "fewer_pages_than_window", current: 2, pageCount: 4, radius: 3, expect: []int{1, 2, 3, 4}},
		{name: "centered", current: 10, pageCount: 20, radius: 3, expect: []int{7, 8, 9, 10, 11, 12, 13}},
		{name: "slides_at_start", current: 1, pageCount: 20, radius: 3, expect: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "slides_near_start", current: 3, pageCount: 20, radius: 3, expect: []int{1, 2, 3, 4, 5, 6, 7}},
		{name: "slides_at_end", current: 20, pageCount: 20, radius: 3, expect: []int{14, 15, 16, 17, 18, 19, 20}},
		{name: "current_beyond_last", current: 99, pageCount: 20, radius: 3, expect: []int{14, 15, 16, 17, 18, 19, 20}},
		{name: "radius_zero", current: 5, pageCount: 20, radius: 0, expect: []int{5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pagination.Window(tc.current, tc.pageCount, tc.radius)
			assert.Equal(t, tc.expect, got)
			assert.LessOrEqual(t, len(got), 2*tc.radius+1)
		})
	}
}
