package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/log"
)

// keyMatcher keeps keys usable as file names.
var keyMatcher = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// LocalStorage keeps every key as <Path>/<key>.json.
type LocalStorage struct {
	// Path to the storage directory
	Path string
}

func NewLocalStorage(path string) (*LocalStorage, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create storage directory %s", path)
	}
	return &LocalStorage{Path: path}, nil
}

func (s *LocalStorage) filePath(key string) (string, error) {
	if !keyMatcher.MatchString(key) {
		return "", errors.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.Path, key+".json"), nil
}

func (s *LocalStorage) Load(key string) ([]byte, error) {
	path, err := s.filePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the old snapshot, so a crash leaves either the old or the new document.
func (s *LocalStorage) Save(key string, data []byte) error {
	path, err := s.filePath(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.Path, "."+key+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "failed to replace %s", path)
	}
	log.Debug("Stored snapshot", zap.String("path", path), zap.Int("size", len(data)))
	return nil
}

// UpdatedAt returns the modification time of the key's file.
func (s *LocalStorage) UpdatedAt(key string) (time.Time, error) {
	path, err := s.filePath(key)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, ErrNotExist
		}
		return time.Time{}, errors.Wrapf(err, "failed to stat %s", path)
	}
	return info.ModTime(), nil
}

func (s *LocalStorage) Close() error {
	return nil
}
