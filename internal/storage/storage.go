// Package storage keeps the catalog snapshot as an opaque document under a
// key. Backends never inspect the bytes they are given.
package storage // import "github.com/Xunop/e-shelf/internal/storage"

import (
	"github.com/pkg/errors"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/database"
)

// ErrNotExist is returned by Load when nothing was saved under the key.
var ErrNotExist = errors.New("snapshot does not exist")

type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Close() error
}

// New opens the backend selected by opts.SnapshotBackend.
func New(opts *config.Options) (Storage, error) {
	switch opts.SnapshotBackend {
	case config.BackendFile:
		return NewLocalStorage(opts.Data)
	case config.BackendSQLite:
		db, err := database.Open(opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStorage(db)
	}
	return nil, errors.Errorf("unsupported snapshot backend %q", opts.SnapshotBackend)
}
