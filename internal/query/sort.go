package query

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Xunop/e-shelf/internal/model"
)

// Sort returns a stably sorted copy of books. Titles and authors are
// compared with the collation rules of lang. Descending only flips the
// comparison, so equal keys keep their input order in both directions.
func Sort(books []*model.Book, key model.SortKey, order model.SortOrder, lang language.Tag) []*model.Book {
	out := slices.Clone(books)
	compare := comparator(key, lang)
	if order == model.Descending {
		asc := compare
		compare = func(a, b *model.Book) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}

func comparator(key model.SortKey, lang language.Tag) func(a, b *model.Book) int {
	switch key {
	case model.SortByTitle:
		c := collate.New(lang, collate.IgnoreCase)
		return func(a, b *model.Book) int { return c.CompareString(a.Title, b.Title) }
	case model.SortByAuthor:
		c := collate.New(lang, collate.IgnoreCase)
		return func(a, b *model.Book) int { return c.CompareString(a.Author, b.Author) }
	case model.SortByRating:
		return func(a, b *model.Book) int { return cmp.Compare(a.Rating, b.Rating) }
	default:
		return func(a, b *model.Book) int { return a.DateAdded.Compare(b.DateAdded) }
	}
}

// View filters and then orders books the way the library page shows them.
func View(books []*model.Book, find *model.FindBook, lang language.Tag) []*model.Book {
	key, order := find.SortBy, find.Order
	if key == "" {
		key = model.DefaultSortKey
	}
	if order == "" {
		order = model.DefaultSortOrder
	}
	return Sort(Filter(books, find.Filters), key, order, lang)
}
