// Package storetest holds the behavioral tests every store.Store backend must pass.
package storetest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
	"github.com/geoleowills/SQL-Library-Manager/internal/store"
)

// Factory returns an empty store. The store is closed by the suite.
type Factory func(t *testing.T) store.Store

// Run executes the conformance suite against stores built by newStore.
//
//nolint:funlen
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		run  func(t *testing.T, s store.Store)
	}{
		{name: "create_assigns_unique_ids", run: createAssignsUniqueIDs},
		{name: "create_rejects_missing_title", run: createRejectsMissingTitle},
		{name: "create_rejects_missing_author", run: createRejectsMissingAuthor},
		{name: "create_keeps_optional_fields_empty", run: createKeepsOptionalFieldsEmpty},
		{name: "find_unknown_id", run: findUnknownID},
		{name: "update_overwrites_fields", run: updateOverwritesFields},
		{name: "update_unknown_id", run: updateUnknownID},
		{name: "update_rejects_invalid_input", run: updateRejectsInvalidInput},
		{name: "delete_removes_book", run: deleteRemovesBook},
		{name: "delete_unknown_id", run: deleteUnknownID},
		{name: "ids_are_not_reused", run: idsAreNotReused},
		{name: "search_matches_any_field", run: searchMatchesAnyField},
		{name: "search_treats_wildcards_literally", run: searchTreatsWildcardsLiterally},
		{name: "search_folds_non_ascii_case", run: searchFoldsNonASCIICase},
		{name: "paginates_twenty_five_books", run: paginatesTwentyFiveBooks},
		{name: "page_beyond_last_is_empty", run: pageBeyondLastIsEmpty},
		{name: "ping", run: ping},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.run(t, s)
		})
	}
}

func mustCreate(t *testing.T, s store.Store, in model.Input) model.Book {
	t.Helper()
	b, err := s.Create(context.Background(), in)
	require.NoError(t, err)
	return b
}

func count(t *testing.T, s store.Store) int {
	t.Helper()
	n, err := s.Count(context.Background(), search.All())
	require.NoError(t, err)
	return n
}

func createAssignsUniqueIDs(t *testing.T, s store.Store) {
	ctx := context.Background()

	a := mustCreate(t, s, model.Input{Title: "Emma", Author: "Jane Austen", Genre: "Romance", Year: "1815"})
	b := mustCreate(t, s, model.Input{Title: "Persuasion", Author: "Jane Austen"})

	assert.NotZero(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)

	found, err := s.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Emma", found.Title)
	assert.Equal(t, "Jane Austen", found.Author)
	assert.Equal(t, "Romance", found.Genre)
	require.NotNil(t, found.Year)
	assert.Equal(t, 1815, *found.Year)
	assert.False(t, found.CreatedAt.IsZero())
}

func createRejectsMissingTitle(t *testing.T, s store.Store) {
	mustCreate(t, s, model.Input{Title: "Emma", Author: "Jane Austen"})
	before := count(t, s)

	_, err := s.Create(context.Background(), model.Input{Title: "", Author: "Jane Doe"})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"title": "Please provide a value for 'Title'"}, verr.Map())
	assert.Equal(t, before, count(t, s))
}

func createRejectsMissingAuthor(t *testing.T, s store.Store) {
	_, err := s.Create(context.Background(), model.Input{Title: "Beowulf", Author: "  "})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{"author": "Please provide a value for 'Author'"}, verr.Map())
	assert.Zero(t, count(t, s))
}

func createKeepsOptionalFieldsEmpty(t *testing.T, s store.Store) {
	b := mustCreate(t, s, model.Input{Title: "Beowulf", Author: "Unknown"})

	found, err := s.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Genre)
	assert.Nil(t, found.Year)
}

func findUnknownID(t *testing.T, s store.Store) {
	_, err := s.FindByID(context.Background(), 4242)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func updateOverwritesFields(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := mustCreate(t, s, model.Input{Title: "Draft", Author: "Someone", Genre: "Essay", Year: "2001"})

	updated, err := s.Update(ctx, b.ID, model.Input{Title: "Final", Author: "Someone Else"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)

	found, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, found.ID)
	assert.Equal(t, "Final", found.Title)
	assert.Equal(t, "Someone Else", found.Author)
	assert.Empty(t, found.Genre)
	assert.Nil(t, found.Year)
}

func updateUnknownID(t *testing.T, s store.Store) {
	_, err := s.Update(context.Background(), 4242, model.Input{Title: "x", Author: "y"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func updateRejectsInvalidInput(t *testing.T, s store.Store) {
	ctx := context.Background()
	b := mustCreate(t, s, model.Input{Title: "Kept", Author: "Author"})

	_, err := s.Update(ctx, b.ID, model.Input{Title: "Changed", Author: ""})

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(model.FieldAuthor))

	found, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", found.Title)
}

func deleteRemovesBook(t *testing.T, s store.Store) {
	ctx := context.Background()
	a := mustCreate(t, s, model.Input{Title: "Gone", Author: "Someone"})
	b := mustCreate(t, s, model.Input{Title: "Stays", Author: "Someone"})

	require.NoError(t, s.Delete(ctx, a.ID))

	_, err := s.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	books, err := s.List(ctx, store.ListOptions{Filter: search.All()})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, b.ID, books[0].ID)
}

func deleteUnknownID(t *testing.T, s store.Store) {
	assert.ErrorIs(t, s.Delete(context.Background(), 4242), model.ErrNotFound)
}

func idsAreNotReused(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, model.Input{Title: "First", Author: "A"})
	last := mustCreate(t, s, model.Input{Title: "Second", Author: "B"})

	require.NoError(t, s.Delete(ctx, last.ID))
	next := mustCreate(t, s, model.Input{Title: "Third", Author: "C"})

	assert.Greater(t, next.ID, last.ID)
}

func searchMatchesAnyField(t *testing.T, s store.Store) {
	ctx := context.Background()
	seed := []model.Input{
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", Year: "1937"},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Year: "1965"},
		{Title: "Emma", Author: "Jane Austen", Genre: "Romance", Year: "1815"},
		{Title: "Brave New World", Author: "Aldous Huxley", Genre: "Science Fiction", Year: "1932"},
		{Title: "Untitled", Author: "Anonymous"},
		{Title: "Émile", Author: "Jean-Jacques Rousseau", Genre: "Pédagogie", Year: "1762"},
		{Title: "Wuthering Heights", Author: "Emily Brontë", Genre: "Gothic", Year: "1847"},
	}
	all := make([]model.Book, 0, len(seed))
	for _, in := range seed {
		all = append(all, mustCreate(t, s, in))
	}

	for _, term := range []string{
		"hobbit", "HERBERT", "science", "1815", "193", "an", "zzz", "",
		"Émile", "émile", "ÉMILE", "BRONTË", "pédagogie", "emile",
	} {
		t.Run(fmt.Sprintf("term_%q", term), func(t *testing.T) {
			f := search.Build(term)

			var want []uint
			for _, b := range all {
				if f.Matches(b) {
					want = append(want, b.ID)
				}
			}

			books, err := s.List(ctx, store.ListOptions{Filter: f})
			require.NoError(t, err)
			got := make([]uint, 0, len(books))
			for _, b := range books {
				got = append(got, b.ID)
			}
			assert.ElementsMatch(t, want, got)

			n, err := s.Count(ctx, f)
			require.NoError(t, err)
			assert.Equal(t, len(want), n)
		})
	}
}

func searchTreatsWildcardsLiterally(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, model.Input{Title: "100% Pure", Author: "A"})
	mustCreate(t, s, model.Input{Title: "1000 Years", Author: "B"})
	mustCreate(t, s, model.Input{Title: "snake_case", Author: "C"})
	mustCreate(t, s, model.Input{Title: "snakeXcase", Author: "D"})

	n, err := s.Count(ctx, search.Build("100%"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.Count(ctx, search.Build("e_c"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func searchFoldsNonASCIICase(t *testing.T, s store.Store) {
	ctx := context.Background()
	emile := mustCreate(t, s, model.Input{Title: "Émile", Author: "Rousseau"})
	kaestner := mustCreate(t, s, model.Input{Title: "Emile and the Detectives", Author: "Erich Kästner"})
	bronte := mustCreate(t, s, model.Input{Title: "Jane Eyre", Author: "Charlotte Brontë"})

	tests := []struct {
		term string
		want []uint
	}{
		{term: "Émile", want: []uint{emile.ID}},
		{term: "émile", want: []uint{emile.ID}},
		{term: "ÉMILE", want: []uint{emile.ID}},
		{term: "brontë", want: []uint{bronte.ID}},
		{term: "BRONTË", want: []uint{bronte.ID}},
		{term: "KÄSTNER", want: []uint{kaestner.ID}},
	}

	for _, tc := range tests {
		t.Run(tc.term, func(t *testing.T) {
			books, err := s.List(ctx, store.ListOptions{Filter: search.Build(tc.term)})
			require.NoError(t, err)

			got := make([]uint, 0, len(books))
			for _, b := range books {
				got = append(got, b.ID)
			}
			assert.Equal(t, tc.want, got)

			n, err := s.Count(ctx, search.Build(tc.term))
			require.NoError(t, err)
			assert.Equal(t, len(tc.want), n)
		})
	}
}

func paginatesTwentyFiveBooks(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 1; i <= 25; i++ {
		mustCreate(t, s, model.Input{Title: fmt.Sprintf("Book %02d", i), Author: "Author"})
	}

	books, err := s.List(ctx, store.ListOptions{Filter: search.All(), Offset: 20, Limit: 10})
	require.NoError(t, err)
	require.Len(t, books, 5)
	assert.Equal(t, "Book 21", books[0].Title)
	assert.Equal(t, "Book 25", books[4].Title)

	books, err = s.List(ctx, store.ListOptions{Filter: search.All(), Offset: 10, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, books, 10)
	assert.Equal(t, "Book 11", books[0].Title)

	books, err = s.List(ctx, store.ListOptions{Filter: search.All(), Offset: 23})
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func pageBeyondLastIsEmpty(t *testing.T, s store.Store) {
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		mustCreate(t, s, model.Input{Title: "Book", Author: "Author"})
	}

	books, err := s.List(ctx, store.ListOptions{Filter: search.All(), Offset: 30, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.Equal(t, 3, count(t, s))
}

func ping(t *testing.T, s store.Store) {
	assert.NoError(t, s.Ping(context.Background()))
}

// Seed creates n valid books and returns them in creation order.
func Seed(t *testing.T, s store.Store, n int) []model.Book {
	t.Helper()
	books := make([]model.Book, 0, n)
	for i := 1; i <= n; i++ {
		books = append(books, mustCreate(t, s, model.Input{
			Title:  fmt.Sprintf("Book %02d", i),
			Author: "Author",
			Year:   fmt.Sprint(1900 + i),
		}))
	}
	return books
}

// AssertCount checks the total number of stored books.
func AssertCount(t *testing.T, s store.Store, want int) {
	t.Helper()
	assert.Equal(t, want, count(t, s))
}
