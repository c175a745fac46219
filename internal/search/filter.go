// Package search turns the free-text term from the book list into a Filter
// that every store backend evaluates the same way.
package search

import (
	"strconv"
	"strings"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
)

// Columns compared with a case-insensitive substring match.
var TextColumns = []string{"title", "author", "genre"}

// YearColumn is compared for equality against the term.
const YearColumn = "year"

// LikeEscape is the escape character used in Pattern.
const LikeEscape = `\`

// FoldFunc is the SQL function SQLite backends register to apply Fold to a
// column. SQLite's own LOWER only folds ASCII.
const FoldFunc = "books_fold"

// Fold is the case folding used on both sides of a text comparison, in SQL
// through FoldFunc and in memory by Matches.
func Fold(s string) string {
	return strings.ToLower(s)
}

type Filter struct {
	term string
}

// Build returns the filter for a raw search term. A blank term matches all books.
func Build(raw string) Filter {
	return Filter{term: strings.TrimSpace(raw)}
}

func All() Filter {
	return Filter{}
}

func (f Filter) MatchAll() bool {
	return f.term == ""
}

func (f Filter) Term() string {
	return f.term
}

// Pattern is the LIKE pattern for the text columns: the folded term with
// LIKE wildcards escaped, wrapped in %.
func (f Filter) Pattern() string {
	r := strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")
	return "%" + r.Replace(Fold(f.term)) + "%"
}

// Matches evaluates the filter against a single book in memory.
func (f Filter) Matches(b model.Book) bool {
	if f.MatchAll() {
		return true
	}

	needle := Fold(f.term)
	for _, v := range []string{b.Title, b.Author, b.Genre} {
		if strings.Contains(Fold(v), needle) {
			return true
		}
	}

	return b.Year != nil && strconv.Itoa(*b.Year) == f.term
}
