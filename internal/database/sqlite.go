package database // import "github.com/Xunop/e-shelf/internal/database"

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/version"
)

const driverName = "sqlite"

type DB struct {
	*sqlx.DB
	path string
}

// Open connects to the SQLite file at path. Call Migrate before use.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("Database URL is required")
	}

	d, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", path)
	}
	// SQLite allows a single writer.
	d.SetMaxOpenConns(1)

	return &DB{DB: d, path: path}, nil
}

func (d *DB) Close() error {
	return d.DB.Close()
}

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "LATEST.sql"

// Migrate applies the latest schema to a fresh database and the pending
// minor version migrations to an existing one.
func (d *DB) Migrate(ctx context.Context) error {
	currentVersion := version.GetCurrentVersion()
	exist, err := d.CheckTableExists(ctx, "migration_history")
	if err != nil {
		return errors.Wrap(err, "failed to check database table")
	}
	if !exist {
		log.Debug("Apply latest schema", zap.String("version", currentVersion))
		if err := d.applyLatestSchema(ctx); err != nil {
			return errors.Wrap(err, "failed to apply latest schema")
		}
		// Upsert the newest version to migration_history.
		if _, err := d.UpsertMigrationHistory(ctx, version.GetSchemaVersion(currentVersion)); err != nil {
			return errors.Wrap(err, "failed to upsert migration history")
		}
		return nil
	}

	migrationHistoryList, err := d.FindMigrationHistoryList(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to find migration history list")
	}
	migrationHistoryVersionList := []string{}
	for _, migrationHistory := range migrationHistoryList {
		migrationHistoryVersionList = append(migrationHistoryVersionList, migrationHistory.Version)
	}
	// A history table without rows predates the first release.
	latestMigrationHistoryVersion := "0.0.0"
	if len(migrationHistoryVersionList) > 0 {
		sort.Sort(version.SortVersion(migrationHistoryVersionList))
		latestMigrationHistoryVersion = migrationHistoryVersionList[len(migrationHistoryVersionList)-1]
	}

	if !version.IsVersionGreaterThan(version.GetSchemaVersion(currentVersion), latestMigrationHistoryVersion) {
		return nil
	}

	backupDBFilePath, err := d.backup()
	if err != nil {
		return err
	}
	log.Info("Start migration",
		zap.String("from", latestMigrationHistoryVersion),
		zap.String("to", currentVersion),
		zap.String("backup", backupDBFilePath))
	for _, minorVersion := range getMinorVersionList() {
		// Patches never change the schema.
		normalizedVersion := minorVersion + ".0"
		if version.IsVersionGreaterThan(normalizedVersion, latestMigrationHistoryVersion) && version.IsVersionGreaterOrEqualThan(currentVersion, normalizedVersion) {
			log.Info("Applying migration", zap.String("version", normalizedVersion))
			if err := d.applyMigrationForMinorVersion(ctx, minorVersion); err != nil {
				return errors.Wrap(err, "failed to apply minor version migration")
			}
		}
	}
	log.Info("End migration")

	// Remove the created backup db file after migrate succeed.
	if backupDBFilePath != "" {
		if err := os.Remove(backupDBFilePath); err != nil {
			log.Warn("Failed to remove backup database file", zap.String("path", backupDBFilePath), zap.Error(err))
		}
	}
	return nil
}

// backup copies the raw database file next to it. In-memory databases have
// nothing to copy.
func (d *DB) backup() (string, error) {
	rawBytes, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read raw database file")
	}
	backupDBFilePath := filepath.Join(filepath.Dir(d.path),
		fmt.Sprintf("e-shelf_%s_%d_backup.db", version.GetCurrentVersion(), time.Now().Unix()))
	if err := os.WriteFile(backupDBFilePath, rawBytes, 0644); err != nil {
		return "", errors.Wrap(err, "failed to write backup database file")
	}
	return backupDBFilePath, nil
}

func (d *DB) applyLatestSchema(ctx context.Context) error {
	latestSchemaPath := fmt.Sprintf("migration/%s", latestSchemaFileName)
	buf, err := migrationFS.ReadFile(latestSchemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file: %q", latestSchemaPath)
	}

	stmt := string(buf)
	if err := d.execute(ctx, stmt); err != nil {
		return errors.Wrapf(err, "failed to apply latest schema: %s", stmt)
	}
	return nil
}

func (d *DB) applyMigrationForMinorVersion(ctx context.Context, minorVersion string) error {
	filenames, err := fs.Glob(migrationFS, fmt.Sprintf("migration/%s/*.sql", minorVersion))
	if err != nil {
		return errors.Wrapf(err, "Failed to find migration files for version %s", minorVersion)
	}

	// The files are applied in name order.
	// 00001__example.sql, 00002__example.sql, ...
	slices.Sort(filenames)

	for _, filename := range filenames {
		buf, err := migrationFS.ReadFile(filename)
		if err != nil {
			return errors.Wrapf(err, "Failed to read migration file: %q", filename)
		}
		stmt := string(buf)
		if err := d.execute(ctx, stmt); err != nil {
			return errors.Wrapf(err, "Failed to apply migration: %s", stmt)
		}
	}

	version := minorVersion + ".0"
	if _, err := d.UpsertMigrationHistory(ctx, version); err != nil {
		return errors.Wrapf(err, "Failed to upsert migration history for version %s", version)
	}

	return nil
}

// execute runs a SQL script within a transaction.
func (d *DB) execute(ctx context.Context, stmt string) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "failed to execute statement")
	}

	return tx.Commit()
}

// minorDirRegexp is a regular expression for minor version directory.
var minorDirRegexp = regexp.MustCompile(`^migration/[0-9]+\.[0-9]+$`)

func getMinorVersionList() []string {
	minorVersionList := []string{}

	if err := fs.WalkDir(migrationFS, "migration", func(path string, file fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file.IsDir() && minorDirRegexp.MatchString(path) {
			minorVersionList = append(minorVersionList, file.Name())
		}

		return nil
	}); err != nil {
		panic(err)
	}

	sort.Sort(version.SortVersion(minorVersionList))

	return minorVersionList
}
