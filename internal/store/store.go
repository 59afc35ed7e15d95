// Package store owns the catalog: the ordered collection of books, every
// mutation of it and its snapshot persistence.
package store // import "github.com/Xunop/e-shelf/internal/store"

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/seed"
	"github.com/Xunop/e-shelf/internal/storage"
	"github.com/Xunop/e-shelf/internal/util"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrLoanedToRequired = errors.New("loanedTo is required to loan a book")
	ErrInvalidStatus    = errors.New("invalid reading status")
	// ErrPersist means the mutation was applied in memory but the snapshot
	// could not be written. The next successful mutation rewrites it.
	ErrPersist = errors.New("failed to persist catalog")
)

type Store struct {
	backend storage.Storage
	key     string
	lang    language.Tag
	now     func() time.Time
	newID   func() string

	mu    sync.RWMutex
	books []*model.Book
}

type Option func(*Store)

// WithClock sets the source of dateAdded and default loan dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLocale sets the collation used to order titles, authors and labels.
func WithLocale(lang language.Tag) Option {
	return func(s *Store) { s.lang = lang }
}

// newStore returns an empty store writing to backend under key.
func newStore(backend storage.Storage, key string, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     key,
		lang:    language.English,
		now:     time.Now,
		newID:   util.GenUUID,
		books:   []*model.Book{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a store and loads its snapshot.
func Open(backend storage.Storage, key string, seedOnCorrupt bool, opts ...Option) (*Store, error) {
	s := newStore(backend, key, opts...)
	if err := s.Load(seedOnCorrupt); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the snapshot once. A missing snapshot seeds the store with the
// sample collection and writes it. An undecodable snapshot is an error
// unless seedOnCorrupt is set.
func (s *Store) Load(seedOnCorrupt bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.backend.Load(s.key)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		log.Info("No snapshot found, seeding sample books", zap.String("key", s.key))
		return s.seedLocked()
	case err != nil:
		return errors.Wrapf(err, "failed to read snapshot %q", s.key)
	}

	books, err := decodeSnapshot(data)
	if err != nil {
		if !seedOnCorrupt {
			return errors.Wrapf(err, "failed to decode snapshot %q", s.key)
		}
		log.Warn("Snapshot is corrupt, seeding sample books", zap.String("key", s.key), zap.Error(err))
		return s.seedLocked()
	}
	s.books = books
	log.Debug("Loaded snapshot", zap.String("key", s.key), zap.Int("books", len(books)))
	return nil
}

func (s *Store) seedLocked() error {
	books, err := seed.Books()
	if err != nil {
		return err
	}
	s.books = books
	return s.persistLocked()
}

// persistLocked writes the whole collection. The caller holds s.mu.
func (s *Store) persistLocked() error {
	data, err := encodeSnapshot(s.books)
	if err == nil {
		err = s.backend.Save(s.key, data)
	}
	if err != nil {
		log.Error("Failed to persist catalog", zap.String("key", s.key), zap.Error(err))
		return errors.WithMessagef(ErrPersist, "%v", err)
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) today() model.Date {
	return model.DateOf(s.now())
}

// Ping checks the backend when it can be checked.
func (s *Store) Ping() error {
	if p, ok := s.backend.(interface{ Ping() error }); ok {
		return p.Ping()
	}
	return nil
}

func (s *Store) Close() error {
	return s.backend.Close()
}
