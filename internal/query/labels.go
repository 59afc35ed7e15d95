package query

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Xunop/e-shelf/internal/model"
)

// Genres lists the distinct genres of the catalog in collation order.
func Genres(books []*model.Book, lang language.Tag) []string {
	return distinct(books, lang, func(b *model.Book) []string { return b.Genre })
}

// Tags lists the distinct tags of the catalog in collation order.
func Tags(books []*model.Book, lang language.Tag) []string {
	return distinct(books, lang, func(b *model.Book) []string { return b.Tags })
}

func distinct(books []*model.Book, lang language.Tag, labels func(*model.Book) []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, b := range books {
		for _, l := range labels(b) {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	c := collate.New(lang)
	slices.SortFunc(out, c.CompareString)
	return out
}
