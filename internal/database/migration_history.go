package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

type MigrationHistory struct {
	Version   string `db:"version"`
	CreatedTs int64  `db:"created_ts"`
}

func (d *DB) UpsertMigrationHistory(ctx context.Context, version string) (*MigrationHistory, error) {
	stmt := `
		INSERT INTO migration_history (
			version
		)
		VALUES (?)
		ON CONFLICT(version) DO UPDATE
		SET
			version=EXCLUDED.version
		RETURNING version, created_ts
	`
	var migrationHistory MigrationHistory
	if err := d.QueryRowxContext(ctx, stmt, version).StructScan(&migrationHistory); err != nil {
		return nil, err
	}

	return &migrationHistory, nil
}

func (d *DB) FindMigrationHistoryList(ctx context.Context) ([]*MigrationHistory, error) {
	query := "SELECT `version`, `created_ts` FROM `migration_history` ORDER BY `created_ts` DESC"
	list := make([]*MigrationHistory, 0)
	if err := d.SelectContext(ctx, &list, query); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) CheckTableExists(ctx context.Context, tableName string) (bool, error) {
	query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
	var name string
	if err := d.GetContext(ctx, &name, query, tableName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
