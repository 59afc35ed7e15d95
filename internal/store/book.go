package store

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/query"
)

// Every method returns copies, callers never share memory with the store.
// On ErrPersist the returned book already reflects the applied change.

// AddBook assigns a fresh id and today's date to the draft and appends it.
func (s *Store) AddBook(draft *model.BookDraft) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book := draft.ToBook(s.newID(), s.today())
	s.books = append(s.books, book)
	log.Debug("Added book", zap.String("id", book.ID), zap.String("title", book.Title))
	return book.Clone(), s.persistLocked()
}

// UpdateBook merges the present fields of patch into the book.
func (s *Store) UpdateBook(id string, patch *model.BookPatch) (*model.Book, error) {
	return s.mutate(id, func(b *model.Book) error {
		patch.Apply(b)
		return nil
	})
}

func (s *Store) DeleteBook(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrBookNotFound
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	log.Debug("Deleted book", zap.String("id", id))
	return s.persistLocked()
}

func (s *Store) GetBook(id string) (*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrBookNotFound
	}
	return s.books[i].Clone(), nil
}

// SetBorrowing replaces the borrowing record, nil clears it.
func (s *Store) SetBorrowing(id string, borrowed *model.Borrowed) (*model.Book, error) {
	return s.mutate(id, func(b *model.Book) error {
		b.Borrowed = borrowed.Clone()
		return nil
	})
}

// SetStatus changes the reading status, completing a book sets its progress
// to 100.
func (s *Store) SetStatus(id string, status model.Status) (*model.Book, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.mutate(id, func(b *model.Book) error {
		b.Status = status
		return nil
	})
}

// SetProgress stores a clamped percentage. A completed book stays at 100.
func (s *Store) SetProgress(id string, percent int) (*model.Book, error) {
	return s.mutate(id, func(b *model.Book) error {
		b.Progress = percent
		return nil
	})
}

// Loan lends the book to loanedTo. It works from both states, loaning a
// loaned book updates the loan details. A zero loanDate means today.
func (s *Store) Loan(id, loanedTo string, loanDate model.Date, returnDate *model.Date) (*model.Book, error) {
	loanedTo = strings.TrimSpace(loanedTo)
	if loanedTo == "" {
		return nil, ErrLoanedToRequired
	}
	if loanDate.IsZero() {
		loanDate = s.today()
	}
	var due *model.Date
	if returnDate != nil && !returnDate.IsZero() {
		d := *returnDate
		due = &d
	}
	return s.mutate(id, func(b *model.Book) error {
		b.Borrowed = &model.Borrowed{
			IsLoaned:   true,
			LoanedTo:   loanedTo,
			LoanDate:   &loanDate,
			ReturnDate: due,
		}
		return nil
	})
}

// ReturnBook puts the book back on the shelf. The borrower and dates are
// kept for the history view. Returning a book on the shelf changes nothing.
func (s *Store) ReturnBook(id string) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrBookNotFound
	}
	book := s.books[i]
	if !book.IsLoaned() {
		return book.Clone(), nil
	}
	book.Borrowed.IsLoaned = false
	log.Debug("Returned book", zap.String("id", id), zap.String("loanedTo", book.Borrowed.LoanedTo))
	return book.Clone(), s.persistLocked()
}

// mutate applies fn to the stored book, normalizes and persists it.
func (s *Store) mutate(id string, fn func(b *model.Book) error) (*model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, ErrBookNotFound
	}
	book := s.books[i].Clone()
	if err := fn(book); err != nil {
		return nil, err
	}
	book.Normalize()
	s.books[i] = book
	return book.Clone(), s.persistLocked()
}

// Books returns the whole collection in insertion order.
func (s *Store) Books() []*model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.books)
}

// SearchBooks filters the collection, keeping its order.
func (s *Store) SearchBooks(filters model.SearchFilters) []*model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(query.Filter(s.books, filters))
}

// ListBooks filters and orders the collection like the library page.
func (s *Store) ListBooks(find *model.FindBook) []*model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(query.View(s.books, find, s.lang))
}

// Loans returns the books currently out with a borrower.
func (s *Store) Loans() []*model.Book {
	return s.selectBooks(func(b *model.Book) bool { return b.IsLoaned() })
}

// LoanHistory returns every book that has a borrowing record, returned or not.
func (s *Store) LoanHistory() []*model.Book {
	return s.selectBooks(func(b *model.Book) bool { return b.Borrowed != nil && b.Borrowed.LoanedTo != "" })
}

func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Genres(s.books, s.lang)
}

func (s *Store) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Tags(s.books, s.lang)
}

func (s *Store) Stats() *model.CatalogStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.CatalogStats{
		Total:    len(s.books),
		ByStatus: make(map[model.Status]int, len(model.Statuses)),
	}
	for _, status := range model.Statuses {
		stats.ByStatus[status] = 0
	}
	for _, b := range s.books {
		stats.ByStatus[b.Status]++
		if b.IsLoaned() {
			stats.OnLoan++
		}
	}
	if u, ok := s.backend.(interface {
		UpdatedAt(key string) (time.Time, error)
	}); ok {
		if ts, err := u.UpdatedAt(s.key); err == nil {
			stats.LastSaved = &ts
		} else {
			log.Debug("Snapshot time unavailable", zap.String("key", s.key), zap.Error(err))
		}
	}
	return stats
}

func (s *Store) selectBooks(keep func(*model.Book) bool) []*model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*model.Book{}
	for _, b := range s.books {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func cloneAll(books []*model.Book) []*model.Book {
	out := make([]*model.Book, len(books))
	for i, b := range books {
		out[i] = b.Clone()
	}
	return out
}
