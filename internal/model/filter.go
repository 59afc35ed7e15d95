package model

import (
	"strings"

	"github.com/pkg/errors"
)

// SearchFilters narrows the catalog view. Every criterion left empty
// matches everything.
type SearchFilters struct {
	Query  string   `json:"query"`
	Genre  []string `json:"genre"`
	Status []Status `json:"status"`
	// Rating is a minimum threshold, nil means no threshold.
	Rating *float64 `json:"rating"`
}

type SortKey string

const (
	SortByTitle     SortKey = "title"
	SortByAuthor    SortKey = "author"
	SortByRating    SortKey = "rating"
	SortByDateAdded SortKey = "dateAdded"
)

type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Defaults of the library view.
const (
	DefaultSortKey   = SortByDateAdded
	DefaultSortOrder = Descending
)

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSortKey, nil
	case "title":
		return SortByTitle, nil
	case "author":
		return SortByAuthor, nil
	case "rating":
		return SortByRating, nil
	case "dateadded", "date_added", "date-added", "added":
		return SortByDateAdded, nil
	}
	return "", errors.Errorf("unknown sort key %q", s)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultSortOrder, nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", errors.Errorf("unknown sort order %q", s)
}

// FindBook combines the filters with the view ordering.
type FindBook struct {
	Filters SearchFilters
	SortBy  SortKey
	Order   SortOrder
}
