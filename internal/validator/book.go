package validator // import "github.com/Xunop/e-shelf/internal/validator"

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Xunop/e-shelf/internal/model"
)

// Errors maps a book field to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	slices.Sort(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, field+": "+e[field])
	}
	return strings.Join(msgs, "; ")
}

// err returns nil for an empty map so callers can return it directly.
func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidateBookDraft checks a new book the way the edit form does. The year
// upper bound is the year of now.
func ValidateBookDraft(d *model.BookDraft, now time.Time) error {
	if d == nil {
		return Errors{"book": "Book is required"}
	}
	errs := Errors{}
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Title is required"
	}
	if strings.TrimSpace(d.Author) == "" {
		errs["author"] = "Author is required"
	}
	if strings.TrimSpace(d.CoverImage) == "" {
		errs["coverImage"] = "Cover image URL is required"
	}
	if !hasLabel(d.Genre) {
		errs["genre"] = "At least one genre is required"
	}
	if d.Pages <= 0 {
		errs["pages"] = "Pages must be greater than 0"
	}
	validateYear(errs, d.Year, now)
	validateRating(errs, d.Rating)
	validateProgress(errs, d.Progress)
	if d.Status != "" && !d.Status.Valid() {
		errs["status"] = invalidStatus(d.Status)
	}
	validateBorrowed(errs, d.Borrowed)
	return errs.err()
}

// ValidateBookPatch applies the same rules to the present fields only.
func ValidateBookPatch(p *model.BookPatch, now time.Time) error {
	if p == nil || p.IsEmpty() {
		return Errors{"book": "No field to update"}
	}
	errs := Errors{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		errs["title"] = "Title is required"
	}
	if p.Author != nil && strings.TrimSpace(*p.Author) == "" {
		errs["author"] = "Author is required"
	}
	if p.CoverImage != nil && strings.TrimSpace(*p.CoverImage) == "" {
		errs["coverImage"] = "Cover image URL is required"
	}
	if p.Genre != nil && !hasLabel(*p.Genre) {
		errs["genre"] = "At least one genre is required"
	}
	if p.Pages != nil && *p.Pages <= 0 {
		errs["pages"] = "Pages must be greater than 0"
	}
	if p.Year != nil {
		validateYear(errs, *p.Year, now)
	}
	if p.Rating != nil {
		validateRating(errs, *p.Rating)
	}
	if p.Progress != nil {
		validateProgress(errs, *p.Progress)
	}
	if p.Status != nil && !p.Status.Valid() {
		errs["status"] = invalidStatus(*p.Status)
	}
	validateBorrowed(errs, p.Borrowed)
	return errs.err()
}

// ValidateLoan checks the borrowing form.
func ValidateLoan(loanedTo string, loanDate model.Date, returnDate *model.Date) error {
	errs := Errors{}
	if strings.TrimSpace(loanedTo) == "" {
		errs["loanedTo"] = "Borrower name is required"
	}
	if loanDate.IsZero() {
		errs["loanDate"] = "Loan date is required"
	}
	if returnDate != nil && !returnDate.IsZero() && !loanDate.IsZero() && returnDate.Compare(loanDate) < 0 {
		errs["returnDate"] = "Return date must not be before the loan date"
	}
	return errs.err()
}

func validateYear(errs Errors, year int, now time.Time) {
	if year < model.MinYear || year > now.Year() {
		errs["year"] = fmt.Sprintf("Year must be between %d and %d", model.MinYear, now.Year())
	}
}

func validateRating(errs Errors, rating float64) {
	if rating < model.MinRating || rating > model.MaxRating {
		errs["rating"] = fmt.Sprintf("Rating must be between %d and %d", model.MinRating, model.MaxRating)
		return
	}
	if rating*2 != math.Trunc(rating*2) {
		errs["rating"] = "Rating must be a multiple of 0.5"
	}
}

func validateProgress(errs Errors, progress int) {
	if progress < model.MinProgress || progress > model.MaxProgress {
		errs["progress"] = fmt.Sprintf("Progress must be between %d and %d", model.MinProgress, model.MaxProgress)
	}
}

func validateBorrowed(errs Errors, b *model.Borrowed) {
	if b == nil || !b.IsLoaned {
		return
	}
	if strings.TrimSpace(b.LoanedTo) == "" {
		errs["loanedTo"] = "Borrower name is required"
	}
}

func invalidStatus(s model.Status) string {
	names := make([]string, len(model.Statuses))
	for i, st := range model.Statuses {
		names[i] = string(st)
	}
	return fmt.Sprintf("Status %q is not one of %s", s, strings.Join(names, ", "))
}

func hasLabel(labels []string) bool {
	return slices.ContainsFunc(labels, func(l string) bool {
		return strings.TrimSpace(l) != ""
	})
}
