package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/database"
	"github.com/Xunop/e-shelf/internal/log"
)

const (
	dialectSQLite = "sqlite3"
	tableSnapshot = "snapshot"
	colKey        = "key"
	colValue      = "value"
	colUpdatedTs  = "updated_ts"
)

// SQLiteStorage keeps snapshots as rows of the snapshot table.
type SQLiteStorage struct {
	db      *database.DB
	builder goqu.DialectWrapper
}

// NewSQLiteStorage migrates db and takes ownership of it.
func NewSQLiteStorage(db *database.DB) (*SQLiteStorage, error) {
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate database")
	}
	return &SQLiteStorage{db: db, builder: goqu.Dialect(dialectSQLite)}, nil
}

func (s *SQLiteStorage) Load(key string) ([]byte, error) {
	query, args, err := s.builder.
		From(tableSnapshot).
		Select(colValue).
		Where(goqu.C(colKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build select query")
	}

	var value string
	if err := s.db.Get(&value, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotExist
		}
		return nil, errors.Wrapf(err, "failed to load snapshot %q", key)
	}
	return []byte(value), nil
}

// Save replaces the row of key, inserting it the first time.
func (s *SQLiteStorage) Save(key string, data []byte) error {
	now := time.Now().Unix()
	update, updateArgs, err := s.builder.
		Update(tableSnapshot).
		Set(goqu.Record{colValue: string(data), colUpdatedTs: now}).
		Where(goqu.C(colKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "failed to build update query")
	}
	insert, insertArgs, err := s.builder.
		Insert(tableSnapshot).
		Rows(goqu.Record{colKey: key, colValue: string(data), colUpdatedTs: now}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "failed to build insert query")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	res, err := tx.Exec(update, updateArgs...)
	if err != nil {
		return errors.Wrapf(err, "failed to update snapshot %q", key)
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	} else if n == 0 {
		if _, err := tx.Exec(insert, insertArgs...); err != nil {
			return errors.Wrapf(err, "failed to insert snapshot %q", key)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit snapshot")
	}
	log.Debug("Stored snapshot", zap.String("key", key), zap.Int("size", len(data)))
	return nil
}

// UpdatedAt returns when key was last saved.
func (s *SQLiteStorage) UpdatedAt(key string) (time.Time, error) {
	query, args, err := s.builder.
		From(tableSnapshot).
		Select(colUpdatedTs).
		Where(goqu.C(colKey).Eq(key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to build select query")
	}
	var ts int64
	if err := s.db.Get(&ts, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrNotExist
		}
		return time.Time{}, err
	}
	return time.Unix(ts, 0), nil
}

func (s *SQLiteStorage) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
