package model

// LoanState is the borrowing state of a book.
type LoanState int

const (
	OnShelf LoanState = iota
	Loaned
)

func (s LoanState) String() string {
	if s == Loaned {
		return "loaned"
	}
	return "on-shelf"
}

// Borrowed tracks a loan. Returned books keep the last borrower and dates
// for the history view, only IsLoaned flips back.
type Borrowed struct {
	IsLoaned   bool   `json:"isLoaned"`
	LoanedTo   string `json:"loanedTo,omitempty"`
	LoanDate   *Date  `json:"loanDate,omitempty"`
	ReturnDate *Date  `json:"returnDate,omitempty"`
}

// State is safe on a nil receiver, which means the book was never loaned.
func (b *Borrowed) State() LoanState {
	if b != nil && b.IsLoaned {
		return Loaned
	}
	return OnShelf
}

func (b *Borrowed) Clone() *Borrowed {
	if b == nil {
		return nil
	}
	c := *b
	if b.LoanDate != nil {
		d := *b.LoanDate
		c.LoanDate = &d
	}
	if b.ReturnDate != nil {
		d := *b.ReturnDate
		c.ReturnDate = &d
	}
	return &c
}
