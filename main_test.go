package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	epub2 "github.com/go-shiori/go-epub"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/validator"
)

// resetFlags restores every flag of the command tree, cobra keeps parsed
// values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func newCLI(t *testing.T) func(args ...string) (string, string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ESHELF_SNAPSHOT_BACKEND", config.BackendFile)
	prevNow, prevOpts := nowFunc, config.Opts
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() {
		nowFunc, config.Opts = prevNow, prevOpts
		jsonOutput, configFile = false, ""
		resetFlags(rootCmd)
	})

	return func(args ...string) (string, string, error) {
		resetFlags(rootCmd)
		jsonOutput, configFile = false, ""
		var stdout, stderr bytes.Buffer
		rootCmd.SetOut(&stdout)
		rootCmd.SetErr(&stderr)
		rootCmd.SetArgs(append([]string{"--data", dir}, args...))
		err := rootCmd.Execute()
		return stdout.String(), stderr.String(), err
	}
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func bookIDs(books []*model.Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func TestListSeedsAndFilters(t *testing.T) {
	run := newCLI(t)

	out, _, err := run("list")
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "7", "6", "5", "4", "3", "2", "1"}, bookIDs(decode[[]*model.Book](t, out)))

	out, _, err = run("list", "--genre", "Science Fiction", "--sort", "title", "--order", "asc")
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "5", "2"}, bookIDs(decode[[]*model.Book](t, out)))

	out, _, err = run("list", "--rating", "4.5", "--status", "reading")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, bookIDs(decode[[]*model.Book](t, out)))

	_, _, err = run("list", "--sort", "pages")
	assert.Error(t, err)

	_, _, err = run("list", "--rating", "NaN")
	assert.Error(t, err)
}

func TestAddUpdateDelete(t *testing.T) {
	run := newCLI(t)

	out, _, err := run("add", "--title", "Piranesi", "--author", "Susanna Clarke",
		"--cover", "https://example.com/piranesi.jpg", "--genre", "Fantasy",
		"--pages", "272", "--year", "2020", "--rating", "4.5")
	require.NoError(t, err)
	added := decode[*model.Book](t, out)
	assert.Equal(t, "2024-06-01", added.DateAdded.String())
	assert.Equal(t, model.StatusToRead, added.Status)

	out, _, err = run("update", added.ID, "--status", "completed", "--notes", "Loved it")
	require.NoError(t, err)
	updated := decode[*model.Book](t, out)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, "Piranesi", updated.Title)
	assert.Equal(t, "Loved it", updated.Notes)

	out, _, err = run("show", added.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, decode[*model.Book](t, out).Status)

	_, stderr, err := run("delete", added.ID)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Deleted "+added.ID)

	_, _, err = run("show", added.ID)
	assert.EqualError(t, err, "book not found")
}

func TestAddRejectsInvalidBook(t *testing.T) {
	run := newCLI(t)

	_, stderr, err := run("add", "--author", "Nobody", "--year", "2030")
	assert.EqualError(t, err, "validation failed")
	assert.Contains(t, stderr, "title: Title is required")
	assert.Contains(t, stderr, "year: Year must be between 1000 and 2024")

	_, stderr, err = run("update", "1")
	assert.EqualError(t, err, "validation failed")
	assert.Contains(t, stderr, "No field to update")
}

func TestStatusAndProgress(t *testing.T) {
	run := newCLI(t)

	out, _, err := run("progress", "8", "140")
	require.NoError(t, err)
	assert.Equal(t, 100, decode[*model.Book](t, out).Progress)

	out, _, err = run("status", "3", "on-hold")
	require.NoError(t, err)
	assert.Equal(t, model.StatusOnHold, decode[*model.Book](t, out).Status)

	_, _, err = run("status", "3", "lost")
	assert.Error(t, err)
}

func TestLoanCycle(t *testing.T) {
	run := newCLI(t)

	_, _, err := run("loan", "8", " ")
	assert.EqualError(t, err, "validation failed")

	out, _, err := run("loan", "8", "Ana", "--due", "2024-07-01")
	require.NoError(t, err)
	book := decode[*model.Book](t, out)
	assert.True(t, book.Borrowed.IsLoaned)
	assert.Equal(t, "2024-07-01", book.Borrowed.ReturnDate.String())

	out, _, err = run("loans")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2", "8"}, bookIDs(decode[[]*model.Book](t, out)))

	out, _, err = run("return", "8")
	require.NoError(t, err)
	book = decode[*model.Book](t, out)
	assert.False(t, book.Borrowed.IsLoaned)
	assert.Equal(t, "Ana", book.Borrowed.LoanedTo)

	out, _, err = run("loans", "--history")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"2", "4", "8"}, bookIDs(decode[[]*model.Book](t, out)))
}

func TestLabelsAndStats(t *testing.T) {
	run := newCLI(t)

	out, _, err := run("genres")
	require.NoError(t, err)
	assert.Contains(t, decode[[]string](t, out), "Magical Realism")

	out, _, err = run("stats")
	require.NoError(t, err)
	stats := decode[model.CatalogStats](t, out)
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 1, stats.OnLoan)
	assert.NotNil(t, stats.LastSaved)
}

func TestPrinterListsInvalidFieldsInOrder(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf, table: true}
	p.invalid(validator.Errors{
		"title":  "Title is required",
		"author": "Author is required",
		"rating": "Rating must be a multiple of 0.5",
		"cover":  "Cover image is required",
	})
	assert.Equal(t, "  author: Author is required\n"+
		"  cover: Cover image is required\n"+
		"  rating: Rating must be a multiple of 0.5\n"+
		"  title: Title is required\n", buf.String())
}

func TestImport(t *testing.T) {
	run := newCLI(t)

	e, err := epub2.NewEpub("The Left Hand of Darkness")
	require.NoError(t, err)
	e.SetAuthor("Ursula K. Le Guin")
	e.SetIdentifier("urn:isbn:9780441478125")
	_, err = e.AddSection("<p>I'll make my report as if I told a story.</p>", "Chapter 1", "", "")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "left-hand.epub")
	require.NoError(t, e.Write(path))

	_, stderr, err := run("import", path)
	assert.EqualError(t, err, "1 of 1 files were not imported")
	assert.Contains(t, stderr, "Cover image URL is required")

	out, _, err := run("import", path, "--default-cover", "https://example.com/cover.jpg",
		"--genre", "Science Fiction", "--year", "1969")
	require.NoError(t, err)
	imported := decode[[]*model.Book](t, out)
	require.Len(t, imported, 1)
	assert.Equal(t, "Ursula K. Le Guin", imported[0].Author)
	assert.Equal(t, "9780441478125", imported[0].ISBN)
	assert.Equal(t, []string{"Science Fiction"}, imported[0].Genre)

	out, _, err = run("list", "--query", "left hand")
	require.NoError(t, err)
	assert.Len(t, decode[[]*model.Book](t, out), 1)
}
