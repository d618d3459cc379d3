package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"                   // PostgreSQL driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/linkshelf/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store is the database/sql implementation of ports.OrganizerRepository.
type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// New opens the database named by dbURL and creates missing tables.
// libsql:// and wss:// URLs go to Turso, postgres:// URLs to pgx, anything
// else to the local SQLite driver.
func New(dbURL string) (*Store, error) {
	driverName := "sqlite"
	d := dialectSQLite
	switch {
	case strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://"):
		driverName = "pgx"
		d = dialectPostgres
	case strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://"):
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	switch driverName {
	case "sqlite":
		// One writer at a time; also keeps in-memory databases alive.
		db.SetMaxOpenConns(1)
	case "pgx":
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxIdleConns(10)
		db.SetMaxOpenConns(20)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db, dialect: d, now: func() time.Time { return time.Now().UTC() }}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// q rewrites ? placeholders to $n for PostgreSQL. Queries in this package
// never carry a literal question mark.
func (s *Store) q(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// insertReturningID runs an INSERT ... RETURNING id.
func (s *Store) insertReturningID(ctx context.Context, qr queryer, query string, args ...any) (int64, error) {
	var id int64
	if err := qr.QueryRowContext(ctx, s.q(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// nextOrder returns max(sort_order)+1 over the rows matched by where, or 0
// when none match.
func (s *Store) nextOrder(ctx context.Context, qr queryer, table, where string, args ...any) (int, error) {
	var maxOrder int
	query := fmt.Sprintf("SELECT COALESCE(MAX(sort_order), -1) FROM %s WHERE %s", table, where)
	if err := qr.QueryRowContext(ctx, s.q(query), args...).Scan(&maxOrder); err != nil {
		return 0, err
	}
	return maxOrder + 1, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

// Ensure interface compliance
var _ ports.OrganizerRepository = (*Store)(nil)
