// Package gormstore is the default book store: gorm over a pure Go SQLite driver.
package gormstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
	"github.com/geoleowills/SQL-Library-Manager/internal/store"
)

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(search.FoldFunc, 1, fold)
}

// fold exposes search.Fold to SQL. Non-text values pass through unchanged.
func fold(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return search.Fold(v), nil
	case []byte:
		return search.Fold(string(v)), nil
	default:
		return v, nil
	}
}

type Store struct {
	db           *gorm.DB
	logger       *slog.Logger
	maxOpenConns int
}

var _ store.Store = (*Store)(nil)

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMaxOpenConns(n int) Option {
	return func(s *Store) {
		s.maxOpenConns = n
	}
}

// Open opens the SQLite database at dsn and creates the books table if needed.
func Open(dsn string, opts ...Option) (*Store, error) {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newGormLogger(s.logger)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if s.maxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(s.maxOpenConns)
	}

	if err := db.AutoMigrate(&model.Book{}); err != nil {
		return nil, fmt.Errorf("create books table: %w", err)
	}

	s.db = db
	s.logger.Info("book store opened", "driver", store.DriverGormSQLite, "dsn", dsn)

	return s, nil
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]model.Book, error) {
	q := s.db.WithContext(ctx).Scopes(matching(opts.Filter)).Order("id")
	if limit, offset, ok := opts.Window(); ok {
		q = q.Limit(limit).Offset(offset)
	}

	books := []model.Book{}
	if err := q.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

func (s *Store) Count(ctx context.Context, filter search.Filter) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Book{}).Scopes(matching(filter)).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}

	return int(n), nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (model.Book, error) {
	var b model.Book
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("find book %d: %w", id, err)
	}

	return b, nil
}

func (s *Store) Create(ctx context.Context, in model.Input) (model.Book, error) {
	if err := in.Validate(); err != nil {
		return model.Book{}, err
	}

	var b model.Book
	in.Apply(&b)

	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, fmt.Errorf("create book: %w", err)
	}

	return b, nil
}

func (s *Store) Update(ctx context.Context, id uint, in model.Input) (model.Book, error) {
	b, err := s.FindByID(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	if err := in.Validate(); err != nil {
		return model.Book{}, err
	}
	in.Apply(&b)

	if err := s.db.WithContext(ctx).Save(&b).Error; err != nil {
		return model.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}

	return b, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// matching scopes a query to the books selected by the search filter.
func matching(f search.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.MatchAll() {
			return db
		}

		pattern := f.Pattern()
		conds := make([]string, 0, len(search.TextColumns)+1)
		args := make([]any, 0, 2*len(search.TextColumns)+1)

		for _, col := range search.TextColumns {
			conds = append(conds, search.FoldFunc+"("+col+") LIKE ? ESCAPE ?")
			args = append(args, pattern, search.LikeEscape)
		}
		conds = append(conds, "CAST("+search.YearColumn+" AS TEXT) = ?")
		args = append(args, f.Term())

		return db.Where(strings.Join(conds, " OR "), args...)
	}
}
