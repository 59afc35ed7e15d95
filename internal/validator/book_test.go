package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-shelf/internal/model"
)

var now = time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)

func validDraft() *model.BookDraft {
	return &model.BookDraft{
		Title:      "The Hobbit",
		Author:     "J.R.R. Tolkien",
		CoverImage: "https://example.com/hobbit.jpg",
		Genre:      []string{"Fantasy"},
		Pages:      310,
		Year:       1937,
		Rating:     4.5,
		Status:     model.StatusReading,
		Progress:   20,
	}
}

func TestValidateBookDraft(t *testing.T) {
	require.NoError(t, ValidateBookDraft(validDraft(), now))

	err := ValidateBookDraft(&model.BookDraft{Year: 2030, Genre: []string{"  "}}, now)
	require.Error(t, err)

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, Errors{
		"title":      "Title is required",
		"author":     "Author is required",
		"coverImage": "Cover image URL is required",
		"genre":      "At least one genre is required",
		"pages":      "Pages must be greater than 0",
		"year":       "Year must be between 1000 and 2025",
	}, errs)
}

func TestValidateBookDraftRanges(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(d *model.BookDraft)
		field string
	}{
		{"rating too high", func(d *model.BookDraft) { d.Rating = 5.5 }, "rating"},
		{"rating not half step", func(d *model.BookDraft) { d.Rating = 3.3 }, "rating"},
		{"negative progress", func(d *model.BookDraft) { d.Progress = -1 }, "progress"},
		{"unknown status", func(d *model.BookDraft) { d.Status = "lost" }, "status"},
		{"year before 1000", func(d *model.BookDraft) { d.Year = 999 }, "year"},
		{"loan without borrower", func(d *model.BookDraft) { d.Borrowed = &model.Borrowed{IsLoaned: true} }, "loanedTo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.edit(d)
			err := ValidateBookDraft(d, now)
			var errs Errors
			require.True(t, errors.As(err, &errs))
			assert.Len(t, errs, 1)
			assert.Contains(t, errs, tt.field)
		})
	}
}

func TestValidateBookPatch(t *testing.T) {
	rating := 4.0
	require.NoError(t, ValidateBookPatch(&model.BookPatch{Rating: &rating}, now))

	empty := ""
	genre := []string{}
	err := ValidateBookPatch(&model.BookPatch{Title: &empty, Genre: &genre}, now)
	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "Title is required", errs["title"])
	assert.Equal(t, "At least one genre is required", errs["genre"])
	assert.NotContains(t, errs, "author")

	assert.Error(t, ValidateBookPatch(&model.BookPatch{}, now))
}

func TestValidateLoan(t *testing.T) {
	loan := model.NewDate(2025, time.March, 1)
	require.NoError(t, ValidateLoan("Sam", loan, nil))

	before := model.NewDate(2025, time.February, 1)
	err := ValidateLoan(" ", loan, &before)
	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "loanedTo")
	assert.Contains(t, errs, "returnDate")
}

func TestErrorsMessageIsSorted(t *testing.T) {
	errs := Errors{"year": "bad year", "author": "bad author"}
	assert.Equal(t, "author: bad author; year: bad year", errs.Error())
}
