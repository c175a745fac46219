// Package store defines the persistence contract for books.
package store

import (
	"context"
	"math"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
)

// ListOptions selects a window of the books matching Filter, ordered by id.
// A zero Limit returns every match.
type ListOptions struct {
	Filter search.Filter
	Offset int
	Limit  int
}

// Store owns all book persistence.
//
// Create and Update validate their input first and return a
// *model.ValidationError without writing anything when it is rejected.
// FindByID, Update and Delete return model.ErrNotFound for unknown ids.
// Any other error is a storage failure.
type Store interface {
	List(ctx context.Context, opts ListOptions) ([]model.Book, error)
	Count(ctx context.Context, filter search.Filter) (int, error)
	FindByID(ctx context.Context, id uint) (model.Book, error)
	Create(ctx context.Context, in model.Input) (model.Book, error)
	Update(ctx context.Context, id uint, in model.Input) (model.Book, error)
	Delete(ctx context.Context, id uint) error
	Ping(ctx context.Context) error
	Close() error
}

// Driver names accepted in DB_DRIVER.
const (
	DriverGormSQLite = "sqlite"
	DriverSQLite3    = "sqlite3"
	DriverPostgres   = "postgres"
	DriverPGX        = "pgx"
)

// Window returns the limit and offset to apply, and false when the whole
// match set is requested. An offset without a limit leaves the limit open.
func (o ListOptions) Window() (limit, offset int, ok bool) {
	if o.Limit <= 0 && o.Offset <= 0 {
		return 0, 0, false
	}
	limit = o.Limit
	if limit <= 0 {
		limit = math.MaxInt32
	}
	return limit, max(o.Offset, 0), true
}
