// Package query filters and orders book collections. Every function is pure
// and never reorders or mutates its input.
package query // import "github.com/Xunop/e-shelf/internal/query"

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/Xunop/e-shelf/internal/model"
)

// Filter returns the books matching every criterion of f, in input order.
// An empty criterion matches everything.
func Filter(books []*model.Book, f model.SearchFilters) []*model.Book {
	m := newMatcher(f)
	out := make([]*model.Book, 0, len(books))
	for _, b := range books {
		if m.match(b) {
			out = append(out, b)
		}
	}
	return out
}

// Match reports whether a single book satisfies f.
func Match(b *model.Book, f model.SearchFilters) bool {
	return newMatcher(f).match(b)
}

type matcher struct {
	f     model.SearchFilters
	fold  cases.Caser
	query string
}

func newMatcher(f model.SearchFilters) *matcher {
	m := &matcher{f: f, fold: cases.Fold()}
	m.query = m.normalize(f.Query)
	return m
}

func (m *matcher) normalize(s string) string {
	return m.fold.String(norm.NFC.String(s))
}

func (m *matcher) match(b *model.Book) bool {
	return m.matchQuery(b) && m.matchGenre(b) && m.matchStatus(b) && m.matchRating(b)
}

func (m *matcher) matchQuery(b *model.Book) bool {
	if m.query == "" {
		return true
	}
	return strings.Contains(m.normalize(b.Title), m.query) ||
		strings.Contains(m.normalize(b.Author), m.query) ||
		strings.Contains(m.normalize(b.Description), m.query)
}

// genre is an OR across the selected labels.
func (m *matcher) matchGenre(b *model.Book) bool {
	if len(m.f.Genre) == 0 {
		return true
	}
	return slices.ContainsFunc(m.f.Genre, b.HasGenre)
}

func (m *matcher) matchStatus(b *model.Book) bool {
	if len(m.f.Status) == 0 {
		return true
	}
	return slices.Contains(m.f.Status, b.Status)
}

func (m *matcher) matchRating(b *model.Book) bool {
	if m.f.Rating == nil {
		return true
	}
	return b.Rating >= *m.f.Rating
}
