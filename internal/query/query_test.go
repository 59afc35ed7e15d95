package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/Xunop/e-shelf/internal/model"
)

func ids(books []*model.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func rating(r float64) *float64 { return &r }

func catalog() []*model.Book {
	return []*model.Book{
		{ID: "A", Title: "The Name of the Wind", Author: "Patrick Rothfuss", Genre: []string{"Fantasy", "Drama"}, Status: model.StatusReading, Rating: 4.5,
			DateAdded: model.NewDate(2024, time.January, 3)},
		{ID: "B", Title: "Death of a Salesman", Author: "Arthur Miller", Genre: []string{"Drama"}, Status: model.StatusCompleted, Rating: 3.5,
			Description: "A tragedy about the American dream.", DateAdded: model.NewDate(2024, time.January, 1)},
		{ID: "C", Title: "Éloge de l'ombre", Author: "Jun'ichirō Tanizaki", Genre: []string{"Fantasy"}, Status: model.StatusToRead, Rating: 4.0,
			DateAdded: model.NewDate(2024, time.January, 2)},
	}
}

func TestFilterEmptyReturnsAllInOrder(t *testing.T) {
	books := catalog()
	got := Filter(books, model.SearchFilters{})
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
}

func TestFilterGenreIsOr(t *testing.T) {
	got := Filter(catalog(), model.SearchFilters{Genre: []string{"Fantasy"}})
	assert.Equal(t, []string{"A", "C"}, ids(got))

	got = Filter(catalog(), model.SearchFilters{Genre: []string{"Fantasy", "Drama"}})
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))

	// Structured fields match exactly.
	got = Filter(catalog(), model.SearchFilters{Genre: []string{"fantasy"}})
	assert.Empty(t, got)
}

func TestFilterRatingThreshold(t *testing.T) {
	got := Filter(catalog(), model.SearchFilters{Rating: rating(4)})
	assert.Equal(t, []string{"A", "C"}, ids(got))

	got = Filter(catalog(), model.SearchFilters{Rating: rating(0)})
	assert.Len(t, got, 3)
}

func TestFilterQuery(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"WIND", []string{"A"}},
		{"miller", []string{"B"}},
		{"american dream", []string{"B"}},
		{"ÉLOGE", []string{"C"}},
		{"of", []string{"A", "B"}},
		{"nothing like this", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := Filter(catalog(), model.SearchFilters{Query: tt.query})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterCombinesWithAnd(t *testing.T) {
	f := model.SearchFilters{
		Genre:  []string{"Fantasy"},
		Status: []model.Status{model.StatusReading, model.StatusToRead},
		Rating: rating(4.5),
	}
	assert.Equal(t, []string{"A"}, ids(Filter(catalog(), f)))
	assert.True(t, Match(catalog()[0], f))
	assert.False(t, Match(catalog()[2], f))
}

func TestSortRatingDescendingIsStable(t *testing.T) {
	books := []*model.Book{
		{ID: "1", Rating: 3.0},
		{ID: "2", Rating: 4.5},
		{ID: "3", Rating: 4.5},
		{ID: "4", Rating: 2.0},
	}
	got := Sort(books, model.SortByRating, model.Descending, language.English)
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(got))
	// Input is untouched.
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(books))

	got = Sort(books, model.SortByRating, model.Ascending, language.English)
	assert.Equal(t, []string{"4", "1", "2", "3"}, ids(got))
}

func TestSortByTitleUsesCollation(t *testing.T) {
	books := []*model.Book{
		{ID: "z", Title: "zebra"},
		{ID: "e", Title: "Éclair"},
		{ID: "a", Title: "apple"},
		{ID: "E", Title: "eagle"},
	}
	got := Sort(books, model.SortByTitle, model.Ascending, language.English)
	assert.Equal(t, []string{"a", "E", "e", "z"}, ids(got))
}

func TestSortByDateAdded(t *testing.T) {
	got := Sort(catalog(), model.SortByDateAdded, model.Ascending, language.English)
	assert.Equal(t, []string{"B", "C", "A"}, ids(got))

	got = View(catalog(), &model.FindBook{}, language.English)
	assert.Equal(t, []string{"A", "C", "B"}, ids(got))
}

func TestViewFiltersThenSorts(t *testing.T) {
	find := &model.FindBook{
		Filters: model.SearchFilters{Genre: []string{"Fantasy"}},
		SortBy:  model.SortByAuthor,
		Order:   model.Ascending,
	}
	got := View(catalog(), find, language.English)
	assert.Equal(t, []string{"C", "A"}, ids(got))
}

func TestLabels(t *testing.T) {
	books := catalog()
	books[0].Tags = []string{"favorite", "signed"}
	books[2].Tags = []string{"borrowed", "favorite"}

	assert.Equal(t, []string{"Drama", "Fantasy"}, Genres(books, language.English))
	assert.Equal(t, []string{"borrowed", "favorite", "signed"}, Tags(books, language.English))
	assert.Equal(t, []string{}, Tags(nil, language.English))
}
