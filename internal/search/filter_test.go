package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
)

func book(title, author, genre string, year int) model.Book {
	b := model.Book{Title: title, Author: author, Genre: genre}
	if year != 0 {
		b.Year = &year
	}
	return b
}

func Test_Build(t *testing.T) {
	assert.True(t, search.Build("").MatchAll())
	assert.True(t, search.Build("   ").MatchAll())
	assert.True(t, search.All().MatchAll())

	f := search.Build("  tolkien ")
	assert.False(t, f.MatchAll())
	assert.Equal(t, "tolkien", f.Term())
}

func Test_Filter_Pattern(t *testing.T) {
	assert.Equal(t, "%%", search.All().Pattern())
	assert.Equal(t, "%harry%", search.Build("Harry").Pattern())
	assert.Equal(t, `%100\%%`, search.Build("100%").Pattern())
	assert.Equal(t, `%a\_b%`, search.Build("a_b").Pattern())
	assert.Equal(t, `%c:\\dir%`, search.Build(`C:\dir`).Pattern())
	assert.Equal(t, "%émile%", search.Build("ÉMILE").Pattern())
}

func Test_Fold(t *testing.T) {
	assert.Equal(t, "émile", search.Fold("Émile"))
	assert.Equal(t, "brontë", search.Fold("BRONTË"))
	assert.Equal(t, "δόξα", search.Fold("ΔΌΞΑ"))
}

func Test_Filter_Matches(t *testing.T) {
	hobbit := book("The Hobbit", "J.R.R. Tolkien", "Fantasy", 1937)
	noYear := book("Untitled", "Anonymous", "", 0)
	emile := book("Émile", "Anne Brontë", "Pédagogie", 1762)

	tests := []struct {
		name  string
		term  string
		book  model.Book
		match bool
	}{
		{name: "empty_term_matches_everything", term: "", book: noYear, match: true},
		{name: "title_substring", term: "hob", book: hobbit, match: true},
		{name: "title_case_insensitive", term: "THE HOBBIT", book: hobbit, match: true},
		{name: "author_substring", term: "tolk", book: hobbit, match: true},
		{name: "genre_substring", term: "tasy", book: hobbit, match: true},
		{name: "year_exact", term: "1937", book: hobbit, match: true},
		{name: "year_partial_does_not_match", term: "193", book: hobbit, match: false},
		{name: "year_absent", term: "1937", book: noYear, match: false},
		{name: "no_field_matches", term: "dune", book: hobbit, match: false},
		{name: "empty_genre_never_matches_text", term: "fantasy", book: noYear, match: false},
		{name: "accented_exact", term: "Émile", book: emile, match: true},
		{name: "accented_lower", term: "émile", book: emile, match: true},
		{name: "accented_upper", term: "ÉMILE", book: emile, match: true},
		{name: "accented_author", term: "BRONTË", book: emile, match: true},
		{name: "accent_is_not_ignored", term: "emile", book: emile, match: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.match, search.Build(tc.term).Matches(tc.book))
		})
	}
}
