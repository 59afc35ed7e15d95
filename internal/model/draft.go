package model

import (
	"bytes"
	"slices"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BookDraft is a book being written by the user, it has no identity yet.
type BookDraft struct {
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
}

// ToBook converts the draft at submit time.
func (d *BookDraft) ToBook(id string, added Date) *Book {
	book := &Book{
		ID:          id,
		Title:       d.Title,
		Author:      d.Author,
		CoverImage:  d.CoverImage,
		Description: d.Description,
		Genre:       slices.Clone(d.Genre),
		Pages:       d.Pages,
		Year:        d.Year,
		ISBN:        d.ISBN,
		Rating:      d.Rating,
		Tags:        slices.Clone(d.Tags),
		Status:      d.Status,
		Progress:    d.Progress,
		Borrowed:    d.Borrowed.Clone(),
		Notes:       d.Notes,
		DateAdded:   added,
	}
	if book.Status == "" {
		book.Status = StatusToRead
	}
	book.Normalize()
	return book
}

// BookPatch is a partial update. A nil field is absent and keeps the stored
// value; id and dateAdded can't be patched. Borrowed is the only nullable
// field, ClearBorrowed records an explicit null for it.
type BookPatch struct {
	Title       *string   `json:"title,omitempty"`
	Author      *string   `json:"author,omitempty"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	Description *string   `json:"description,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
	Pages       *int      `json:"pages,omitempty"`
	Year        *int      `json:"year,omitempty"`
	ISBN        *string   `json:"isbn,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Progress    *int      `json:"progress,omitempty"`
	Borrowed    *Borrowed `json:"borrowed,omitempty"`
	Notes       *string   `json:"notes,omitempty"`

	ClearBorrowed bool `json:"-"`
}

// UnmarshalJSON tells an absent "borrowed" key from "borrowed": null.
func (p *BookPatch) UnmarshalJSON(data []byte) error {
	type plain BookPatch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var keys map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*p = BookPatch(v)
	if raw, ok := keys["borrowed"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		p.ClearBorrowed = true
	}
	return nil
}

// IsEmpty reports a patch without any field.
func (p *BookPatch) IsEmpty() bool {
	return *p == BookPatch{}
}

// Apply merges the present fields into b and re-normalizes it.
func (p *BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.CoverImage != nil {
		b.CoverImage = *p.CoverImage
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Genre != nil {
		b.Genre = slices.Clone(*p.Genre)
	}
	if p.Pages != nil {
		b.Pages = *p.Pages
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.Tags != nil {
		b.Tags = slices.Clone(*p.Tags)
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.Progress != nil {
		b.Progress = *p.Progress
	}
	if p.Borrowed != nil {
		b.Borrowed = p.Borrowed.Clone()
	} else if p.ClearBorrowed {
		b.Borrowed = nil
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	b.Normalize()
}
