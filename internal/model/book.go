package model //import "github.com/Xunop/e-shelf/internal/model"

import (
	"slices"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Status is the reading status of a book.
type Status string

const (
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
	StatusToRead    Status = "to-read"
	StatusOnHold    Status = "on-hold"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusReading, StatusCompleted, StatusToRead, StatusOnHold}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", errors.Errorf("unknown status %q", s)
	}
	return status, nil
}

const (
	MinProgress = 0
	MaxProgress = 100
	MinRating   = 0
	MaxRating   = 5
	MinYear     = 1000
)

type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	CoverImage  string    `json:"coverImage"`
	Description string    `json:"description"`
	Genre       []string  `json:"genre"`
	Pages       int       `json:"pages"`
	Year        int       `json:"year"`
	ISBN        string    `json:"isbn"`
	Rating      float64   `json:"rating"`
	Tags        []string  `json:"tags"`
	Status      Status    `json:"status"`
	Progress    int       `json:"progress"`
	Borrowed    *Borrowed `json:"borrowed,omitempty"`
	Notes       string    `json:"notes"`
	DateAdded   Date      `json:"dateAdded"`
}

// Clone returns a deep copy, nil stays nil.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	c := *b
	c.Genre = slices.Clone(b.Genre)
	c.Tags = slices.Clone(b.Tags)
	c.Borrowed = b.Borrowed.Clone()
	return &c
}

// IsLoaned reports whether the book is currently out with a borrower.
func (b *Book) IsLoaned() bool {
	return b.Borrowed.State() == Loaned
}

// HasGenre reports an exact label match.
func (b *Book) HasGenre(genre string) bool {
	return slices.Contains(b.Genre, genre)
}

// Normalize enforces the structural invariants: genre and tags are sets
// keeping first occurrence, progress is clamped, a completed book is at 100.
// Labels are compared byte for byte and never rewritten, only empty ones go.
func (b *Book) Normalize() {
	b.Genre = uniqueLabels(b.Genre)
	b.Tags = uniqueLabels(b.Tags)
	b.Progress = ClampProgress(b.Progress)
	if b.Status == StatusCompleted {
		b.Progress = MaxProgress
	}
}

func ClampProgress(p int) int {
	return min(max(p, MinProgress), MaxProgress)
}

func uniqueLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		if label == "" || slices.Contains(out, label) {
			continue
		}
		out = append(out, label)
	}
	return out
}

// Snapshot is the persisted document holding the whole catalog.
type Snapshot struct {
	Version string  `json:"version"`
	Books   []*Book `json:"books"`
}

// CatalogStats summarises the catalog for the header counters.
type CatalogStats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
	OnLoan   int            `json:"onLoan"`
	// LastSaved is when the snapshot was last written, nil when the
	// backend can't tell.
	LastSaved *time.Time `json:"lastSaved,omitempty"`
}
