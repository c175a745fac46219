// Package sqlstore is a book store on sqlx with queries built by goqu. It
// serves SQLite through mattn/go-sqlite3 and PostgreSQL through either
// lib/pq ("postgres") or pgx ("pgx").
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // goqu dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // goqu dialect
	"github.com/doug-martin/goqu/v9/exp"
	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // "postgres" driver
	"github.com/mattn/go-sqlite3"

	"github.com/geoleowills/SQL-Library-Manager/internal/model"
	"github.com/geoleowills/SQL-Library-Manager/internal/search"
	"github.com/geoleowills/SQL-Library-Manager/internal/store"
)

const (
	defaultTableName = "books"
	dialectPostgres  = "postgres"
	dialectSQLite3   = "sqlite3"
	colID            = "id"
	colTitle         = "title"
	colAuthor        = "author"
	colGenre         = "genre"
	colYear          = "year"
	colCreatedAt     = "created_at"
	colUpdatedAt     = "updated_at"
	logMsgQuery      = "executed sql"
	logAttrOperation = "operation"
	logAttrQuery     = "query"
	logAttrDuration  = "duration_ms"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported sql driver")
	ErrEmptyTableName    = errors.New("table name must not be empty")
)

// SQLiteDriverName is mattn/go-sqlite3 with search.FoldFunc installed on
// every connection. Handles passed to New must be opened with it instead of
// the plain "sqlite3" driver.
const SQLiteDriverName = "sqlite3_books"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(search.FoldFunc, search.Fold, true)
		},
	})
	sqlx.BindDriver(SQLiteDriverName, sqlx.QUESTION)
}

// store driver name -> database/sql driver name
var sqlDrivers = map[string]string{
	store.DriverSQLite3:  SQLiteDriverName,
	store.DriverPostgres: store.DriverPostgres,
	store.DriverPGX:      store.DriverPGX,
}

// database/sql driver name -> goqu dialect
var dialects = map[string]string{
	SQLiteDriverName:     dialectSQLite3,
	store.DriverPostgres: dialectPostgres,
	store.DriverPGX:      dialectPostgres,
}

var schemas = map[string]string{
	dialectSQLite3: `CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		genre TEXT NOT NULL DEFAULT '',
		year INTEGER,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	dialectPostgres: `CREATE TABLE IF NOT EXISTS %s (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		genre TEXT NOT NULL DEFAULT '',
		year INTEGER,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

type Store struct {
	db           *sqlx.DB
	dialect      goqu.DialectWrapper
	dialectName  string
	table        string
	logger       *slog.Logger
	maxOpenConns int
	now          func() time.Time
}

var _ store.Store = (*Store)(nil)

type Option func(*Store) error

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

func WithMaxOpenConns(n int) Option {
	return func(s *Store) error {
		s.maxOpenConns = n
		return nil
	}
}

func WithTableName(name string) Option {
	return func(s *Store) error {
		if name == "" {
			return ErrEmptyTableName
		}
		s.table = name
		return nil
	}
}

// WithClock replaces the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		s.now = now
		return nil
	}
}

// Open connects with the named driver and prepares the books table.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	sqlDriver, ok := sqlDrivers[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sqlx.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	s, err := New(ctx, db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// New wraps an open handle. The driver name of db selects the SQL dialect.
func New(ctx context.Context, db *sqlx.DB, opts ...Option) (*Store, error) {
	dialectName, ok := dialects[db.DriverName()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, db.DriverName())
	}

	s := &Store{
		db:          db,
		dialect:     goqu.Dialect(dialectName),
		dialectName: dialectName,
		table:       defaultTableName,
		logger:      slog.Default(),
		now:         time.Now,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.maxOpenConns > 0 {
		db.SetMaxOpenConns(s.maxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf(schemas[dialectName], s.table)); err != nil {
		return nil, fmt.Errorf("create %s table: %w", s.table, err)
	}

	s.logger.Info("book store opened", "driver", db.DriverName(), "table", s.table)

	return s, nil
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]model.Book, error) {
	ds := s.selectBooks().Order(goqu.I(colID).Asc())
	if !opts.Filter.MatchAll() {
		ds = ds.Where(s.matching(opts.Filter))
	}
	if limit, offset, ok := opts.Window(); ok {
		ds = ds.Limit(uint(limit)).Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	books := []model.Book{}
	start := time.Now()
	if err := s.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	s.logQuery(ctx, "list", query, start)

	return books, nil
}

func (s *Store) Count(ctx context.Context, filter search.Filter) (int, error) {
	ds := s.dialect.From(s.table).Prepared(true).Select(goqu.COUNT(goqu.Star()))
	if !filter.MatchAll() {
		ds = ds.Where(s.matching(filter))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int
	start := time.Now()
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	s.logQuery(ctx, "count", query, start)

	return n, nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (model.Book, error) {
	query, args, err := s.selectBooks().Where(goqu.C(colID).Eq(id)).Limit(1).ToSQL()
	if err != nil {
		return model.Book{}, fmt.Errorf("build find query: %w", err)
	}

	var b model.Book
	start := time.Now()
	if err := s.db.GetContext(ctx, &b, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, model.ErrNotFound
		}
		return model.Book{}, fmt.Errorf("find book %d: %w", id, err)
	}
	s.logQuery(ctx, "find", query, start)

	return b, nil
}

func (s *Store) Create(ctx context.Context, in model.Input) (model.Book, error) {
	if err := in.Validate(); err != nil {
		return model.Book{}, err
	}

	var b model.Book
	in.Apply(&b)
	b.CreatedAt = s.now().UTC()
	b.UpdatedAt = b.CreatedAt

	rec := record(b)
	rec[colCreatedAt] = b.CreatedAt

	id, err := s.insert(ctx, rec)
	if err != nil {
		return model.Book{}, fmt.Errorf("create book: %w", err)
	}
	b.ID = id

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
	b.UpdatedAt = s.now().UTC()

	query, args, err := s.dialect.Update(s.table).Prepared(true).
		Set(record(b)).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return model.Book{}, fmt.Errorf("build update query: %w", err)
	}

	if err := s.execOne(ctx, "update", query, args); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Book{}, err
		}
		return model.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}

	return b, nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	query, args, err := s.dialect.Delete(s.table).Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	if err := s.execOne(ctx, "delete", query, args); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) selectBooks() *goqu.SelectDataset {
	return s.dialect.From(s.table).Prepared(true).
		Select(colID, colTitle, colAuthor, colGenre, colYear, colCreatedAt, colUpdatedAt)
}

// insert writes rec and returns the generated id. PostgreSQL drivers do not
// report LastInsertId, so the id comes back through RETURNING there.
func (s *Store) insert(ctx context.Context, rec goqu.Record) (uint, error) {
	ds := s.dialect.Insert(s.table).Prepared(true).Rows(rec)
	start := time.Now()

	if s.dialectName == dialectPostgres {
		query, args, err := ds.Returning(colID).ToSQL()
		if err != nil {
			return 0, err
		}

		var id uint
		if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		s.logQuery(ctx, "insert", query, start)

		return id, nil
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	s.logQuery(ctx, "insert", query, start)

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	return uint(id), nil
}

// execOne runs a statement that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, op, query string, args []any) error {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	s.logQuery(ctx, op, query, start)

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (s *Store) logQuery(ctx context.Context, op, query string, start time.Time) {
	s.logger.DebugContext(ctx, logMsgQuery,
		logAttrOperation, op,
		logAttrQuery, query,
		logAttrDuration, time.Since(start).Milliseconds(),
	)
}

// record holds the columns written on both insert and update.
func record(b model.Book) goqu.Record {
	var year any
	if b.Year != nil {
		year = *b.Year
	}

	return goqu.Record{
		colTitle:     b.Title,
		colAuthor:    b.Author,
		colGenre:     b.Genre,
		colYear:      year,
		colUpdatedAt: b.UpdatedAt,
	}
}

// matching is the search predicate as a goqu expression. SQLite folds the
// column with search.FoldFunc; PostgreSQL's LOWER is Unicode aware and is
// applied to both sides.
func (s *Store) matching(f search.Filter) exp.Expression {
	pattern := f.Pattern()
	like := search.FoldFunc + "(?) LIKE ? ESCAPE ?"
	if s.dialectName == dialectPostgres {
		like = "LOWER(?) LIKE LOWER(?) ESCAPE ?"
	}

	exprs := make([]exp.Expression, 0, len(search.TextColumns)+1)
	for _, col := range search.TextColumns {
		exprs = append(exprs, goqu.L(like, goqu.I(col), pattern, search.LikeEscape))
	}
	exprs = append(exprs, goqu.L("CAST(? AS TEXT) = ?", goqu.I(search.YearColumn), f.Term()))

	return goqu.Or(exprs...)
}
