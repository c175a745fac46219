package model

import "errors"

// Draft is an unsaved book as shown on a form. It is built from request
// input (or a loaded record) and never touches the store.
type Draft struct {
	ID     uint
	Input  Input
	Errors *ValidationError
}

func NewDraft(in Input) Draft {
	return Draft{Input: in}
}

func DraftFromBook(b Book) Draft {
	return Draft{ID: b.ID, Input: InputFromBook(b)}
}

// WithError attaches err to the draft when it is a validation failure and
// reports whether it was one.
func (d Draft) WithError(err error) (Draft, bool) {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return d, false
	}
	d.Errors = verr
	return d, true
}

func (d Draft) HasErrors() bool {
	return d.Errors != nil && len(d.Errors.Errors) > 0
}

func (d Draft) FieldErrors() []FieldError {
	if d.Errors == nil {
		return nil
	}
	return d.Errors.Errors
}
