package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"conlang/internal/domain"
)

// Supported dialects.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Store is a domain.Store backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to dsn with the driver for dialect and migrates the schema.
func Open(ctx context.Context, dialect, dsn string) (*Store, error) {
	var driver string
	switch dialect {
	case DialectSQLite:
		driver = "sqlite"
	case DialectPostgres:
		driver = "pgx"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One writer; also keeps a ":memory:" database alive across calls.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}
	if err := Migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, dialect: dialect}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// nextID draws from the id sequence shared by users and records.
func (s *Store) nextID(ctx context.Context, q querier) (int64, error) {
	var id int64
	if err := q.QueryRowContext(ctx, `INSERT INTO id_seq DEFAULT VALUES RETURNING id`).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	return id, nil
}

// inTx runs fn in a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func encodeList[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList[T any](raw string) ([]T, error) {
	out := []T{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func notFound(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// updateShares rewrites one record's share list inside a transaction.
func (s *Store) updateShares(ctx context.Context, table string, id domain.RecordID, fn func(*domain.Ownership)) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var (
			owner int64
			raw   string
		)
		err := tx.QueryRowContext(ctx,
			s.rebind(`SELECT created_by, shared_with FROM `+table+` WHERE id = ?`), int64(id),
		).Scan(&owner, &raw)
		if notFound(err) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		shared, err := decodeList[domain.UserID](raw)
		if err != nil {
			return fmt.Errorf("decode shared_with: %w", err)
		}
		o := domain.Ownership{CreatedBy: domain.UserID(owner), SharedWith: shared}
		fn(&o)
		enc, err := encodeList(o.SharedWith)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, s.rebind(`UPDATE `+table+` SET shared_with = ? WHERE id = ?`), enc, int64(id))
		return err
	})
}

// deleteByID removes one row, reporting ErrNotFound when nothing matched.
func (s *Store) deleteByID(ctx context.Context, table string, id domain.RecordID) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM `+table+` WHERE id = ?`), int64(id))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Compile-time assertion that Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Reset deletes every row. Intended for test databases.
func (s *Store) Reset(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"rule_sets", "phonology", "lexicon", "users", "id_seq"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("reset %s: %w", table, err)
			}
		}
		return nil
	})
}
