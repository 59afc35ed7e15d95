package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/term"

	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/validator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printer renders results as aligned tables for people and as JSON for
// pipes and scripts.
type printer struct {
	w     io.Writer
	table bool
}

func newPrinter(w io.Writer) *printer {
	table := false
	if f, ok := w.(*os.File); ok && !jsonOutput {
		table = term.IsTerminal(int(f.Fd()))
	}
	return &printer{w: w, table: table}
}

func (p *printer) printJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) books(books []*model.Book) error {
	if !p.table {
		return p.printJSON(books)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tSTATUS\tPROGRESS\tRATING\tADDED\tLOAN")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d%%\t%s\t%s\t%s\n",
			b.ID, truncate(b.Title, 40), truncate(b.Author, 24), b.Status,
			b.Progress, stars(b.Rating), b.DateAdded, loanSummary(b.Borrowed))
	}
	return tw.Flush()
}

func (p *printer) book(b *model.Book) error {
	if !p.table {
		return p.printJSON(b)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"ID", b.ID},
		{"Title", b.Title},
		{"Author", b.Author},
		{"Year", fmt.Sprint(b.Year)},
		{"Pages", fmt.Sprint(b.Pages)},
		{"ISBN", b.ISBN},
		{"Genre", strings.Join(b.Genre, ", ")},
		{"Tags", strings.Join(b.Tags, ", ")},
		{"Status", string(b.Status)},
		{"Progress", fmt.Sprintf("%d%%", b.Progress)},
		{"Rating", stars(b.Rating)},
		{"Loan", loanSummary(b.Borrowed)},
		{"Added", b.DateAdded.String()},
		{"Cover", b.CoverImage},
		{"Notes", b.Notes},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	if b.Description != "" {
		fmt.Fprintf(tw, "\n%s\n", b.Description)
	}
	return tw.Flush()
}

func (p *printer) labels(labels []string) error {
	if !p.table {
		return p.printJSON(labels)
	}
	for _, l := range labels {
		fmt.Fprintln(p.w, l)
	}
	return nil
}

func (p *printer) stats(s *model.CatalogStats) error {
	if !p.table {
		return p.printJSON(s)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total:\t%d\n", s.Total)
	for _, status := range model.Statuses {
		fmt.Fprintf(tw, "%s:\t%d\n", status, s.ByStatus[status])
	}
	fmt.Fprintf(tw, "On loan:\t%d\n", s.OnLoan)
	if s.LastSaved != nil {
		fmt.Fprintf(tw, "Last saved:\t%s\n", s.LastSaved.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// invalid prints one line per rejected field, sorted by field name.
func (p *printer) invalid(fields validator.Errors) {
	names := make([]string, 0, len(fields))
	for field := range fields {
		names = append(names, field)
	}
	slices.Sort(names)
	for _, field := range names {
		fmt.Fprintf(p.w, "  %s: %s\n", field, fields[field])
	}
}

func stars(rating float64) string {
	if rating == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", rating)
}

func loanSummary(b *model.Borrowed) string {
	if b == nil || b.LoanedTo == "" {
		return ""
	}
	if !b.IsLoaned {
		return "returned by " + b.LoanedTo
	}
	s := b.LoanedTo
	if b.ReturnDate != nil && !b.ReturnDate.IsZero() {
		s += " until " + b.ReturnDate.String()
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
