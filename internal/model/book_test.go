package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
)

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name   string
		input  model.Input
		expect map[string]string
	}{
		{
			name:  "complete_input_is_valid",
			input: model.Input{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: "1965"},
		},
		{
			name:  "genre_and_year_are_optional",
			input: model.Input{Title: "Dune", Author: "Frank Herbert"},
		},
		{
			name:   "empty_title",
			input:  model.Input{Title: "", Author: "Jane Doe"},
			expect: map[string]string{"title": "Please provide a value for 'Title'"},
		},
		{
			name:   "blank_author",
			input:  model.Input{Title: "Emma", Author: "   "},
			expect: map[string]string{"author": "Please provide a value for 'Author'"},
		},
		{
			name:  "both_required_fields_missing",
			input: model.Input{},
			expect: map[string]string{
				"title":  "Please provide a value for 'Title'",
				"author": "Please provide a value for 'Author'",
			},
		},
		{
			name:   "year_not_a_number",
			input:  model.Input{Title: "Emma", Author: "Jane Austen", Year: "eighteen"},
			expect: map[string]string{"year": "Please provide a valid number for 'Year'"},
		},
		{
			name:   "year_beyond_integer_column",
			input:  model.Input{Title: "Emma", Author: "Jane Austen", Year: "99999999999"},
			expect: map[string]string{"year": "Please provide a valid number for 'Year'"},
		},
		{
			name:  "year_at_integer_bounds",
			input: model.Input{Title: "Emma", Author: "Jane Austen", Year: "-2147483648"},
		},
		{
			name:  "year_max_integer",
			input: model.Input{Title: "Emma", Author: "Jane Austen", Year: "2147483647"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.input.Validate()
			if tc.expect == nil {
				assert.NoError(t, err)
				return
			}

			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.expect, verr.Map())
		})
	}
}

func TestValidationError_KeepsFieldOrder(t *testing.T) {
	err := model.Input{Year: "x"}.Validate()

	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 3)
	assert.Equal(t, model.FieldTitle, verr.Errors[0].Field)
	assert.Equal(t, model.FieldAuthor, verr.Errors[1].Field)
	assert.Equal(t, model.FieldYear, verr.Errors[2].Field)
	assert.True(t, verr.Has(model.FieldYear))
	assert.Contains(t, verr.Error(), "Please provide a value for 'Title'")
}

func TestInput_Apply(t *testing.T) {
	b := model.Book{ID: 7, Title: "old", Author: "old", Genre: "old"}
	year := 1999
	b.Year = &year

	model.Input{Title: "New", Author: "Someone", Genre: "", Year: ""}.Apply(&b)

	assert.Equal(t, uint(7), b.ID)
	assert.Equal(t, "New", b.Title)
	assert.Equal(t, "Someone", b.Author)
	assert.Empty(t, b.Genre)
	assert.Nil(t, b.Year)

	model.Input{Title: "New", Author: "Someone", Year: " 2001 "}.Apply(&b)
	require.NotNil(t, b.Year)
	assert.Equal(t, 2001, *b.Year)
	assert.Equal(t, "2001", b.YearString())
}

func TestDraft_WithError(t *testing.T) {
	in := model.Input{Title: "", Author: "Jane Doe", Genre: "Drama", Year: "1990"}
	d := model.NewDraft(in)

	d, ok := d.WithError(fmt.Errorf("create: %w", in.Validate()))
	require.True(t, ok)
	assert.True(t, d.HasErrors())
	assert.Equal(t, in, d.Input)
	assert.Len(t, d.FieldErrors(), 1)

	_, ok = model.NewDraft(in).WithError(errors.New("disk on fire"))
	assert.False(t, ok)
}

func TestDraftFromBook(t *testing.T) {
	year := 1813
	d := model.DraftFromBook(model.Book{ID: 3, Title: "Pride and Prejudice", Author: "Jane Austen", Year: &year})

	assert.Equal(t, uint(3), d.ID)
	assert.Equal(t, "1813", d.Input.Year)
	assert.False(t, d.HasErrors())
	assert.Nil(t, d.FieldErrors())
}
