package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotFound = errors.New("book not found")

const (
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldYear   = "year"
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned by create and update when the submitted fields
// cannot be stored. It is recoverable: the form is shown again with the messages.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Map returns the errors keyed by field name.
func (e *ValidationError) Map() map[string]string {
	m := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		m[fe.Field] = fe.Message
	}
	return m
}

func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: msg})
}

func requiredMessage(label string) string {
	return fmt.Sprintf("Please provide a value for '%s'", label)
}

// Validate checks the input against the rules shared by create and update.
// It returns a *ValidationError, or nil when the input can be persisted.
func (in Input) Validate() error {
	verr := &ValidationError{}

	if strings.TrimSpace(in.Title) == "" {
		verr.add(FieldTitle, requiredMessage("Title"))
	}
	if strings.TrimSpace(in.Author) == "" {
		verr.add(FieldAuthor, requiredMessage("Author"))
	}
	if y := in.yearText(); y != "" {
		if _, err := parseYear(y); err != nil {
			verr.add(FieldYear, "Please provide a valid number for 'Year'")
		}
	}

	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

func (in Input) yearText() string {
	return strings.TrimSpace(in.Year)
}

// parseYear accepts values that fit the 32-bit INTEGER year column.
func parseYear(y string) (int, error) {
	n, err := strconv.ParseInt(y, 10, 32)
	return int(n), err
}
