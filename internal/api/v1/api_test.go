package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/storage"
	"github.com/Xunop/e-shelf/internal/store"
)

var today = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

// flakyStorage fails every save once broken is set.
type flakyStorage struct {
	storage.Storage
	broken bool
}

func (s *flakyStorage) Save(key string, data []byte) error {
	if s.broken {
		return errors.New("disk full")
	}
	return s.Storage.Save(key, data)
}

func newTestServer(t *testing.T) (*mux.Router, *flakyStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	backend := &flakyStorage{Storage: local}

	n := 0
	s, err := store.Open(backend, "library", false,
		store.WithClock(func() time.Time { return today }),
		store.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		}))
	require.NoError(t, err)

	h := NewHandler(s, nil)
	h.now = func() time.Time { return today }
	router := mux.NewRouter()
	Server(router, h)
	return router, backend
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func decodeBooks(t *testing.T, w *httptest.ResponseRecorder) []*model.Book {
	t.Helper()
	var books []*model.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	return books
}

func decodeBook(t *testing.T, w *httptest.ResponseRecorder) *model.Book {
	t.Helper()
	var book model.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &book))
	return &book
}

func ids(books []*model.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestListBooks(t *testing.T) {
	router, _ := newTestServer(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"8", "7", "6", "5", "4", "3", "2", "1"}},
		{"?genre=Science%20Fiction&sort=title&order=asc", []string{"8", "5", "2"}},
		{"?rating=4.5", []string{"7", "6", "2", "1"}},
		{"?status=reading,on-hold&order=asc", []string{"3", "4", "7"}},
		{"?status=reading&status=to-read&q=DUNE", []string{"8"}},
		{"?genre=Fantasy&genre=Memoir&sort=rating", []string{"1", "7", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := do(t, router, http.MethodGet, "/api/v1/books"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, ids(decodeBooks(t, w)))
		})
	}
}

func TestListBooksRejectsBadParameters(t *testing.T) {
	router, _ := newTestServer(t)

	for _, query := range []string{"?sort=pages", "?order=up", "?status=lost", "?rating=high", "?rating=NaN", "?rating=Inf", "?rating=-inf"} {
		w := do(t, router, http.MethodGet, "/api/v1/books"+query, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestAddBook(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/v1/books", `{
		"title": "Piranesi", "author": "Susanna Clarke", "coverImage": "https://example.com/p.jpg",
		"genre": ["Fantasy"], "pages": 272, "year": 2020, "rating": 4.5, "tags": ["favorite"]
	}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	book := decodeBook(t, w)
	assert.Equal(t, "new-1", book.ID)
	assert.Equal(t, "2024-06-01", book.DateAdded.String())
	assert.Equal(t, model.StatusToRead, book.Status)

	w = do(t, router, http.MethodGet, "/api/v1/books/new-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Piranesi", decodeBook(t, w).Title)
}

func TestAddBookValidation(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPost, "/api/v1/books", `{"author": "Nobody", "year": 2030, "rating": 4.2}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		ErrorMessage string            `json:"error_message"`
		Fields       map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Title is required", body.Fields["title"])
	assert.Equal(t, "Year must be between 1000 and 2024", body.Fields["year"])
	assert.Equal(t, "Rating must be a multiple of 0.5", body.Fields["rating"])
	assert.Equal(t, "Pages must be greater than 0", body.Fields["pages"])

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/v1/books", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/v1/books", "{").Code)
}

func TestGetUpdateDeleteBook(t *testing.T) {
	router, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/books/missing", "").Code)

	w := do(t, router, http.MethodPatch, "/api/v1/books/8", `{"rating": 3, "tags": ["re-read"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	book := decodeBook(t, w)
	assert.Equal(t, 3.0, book.Rating)
	assert.Equal(t, []string{"re-read"}, book.Tags)
	assert.Equal(t, "Dune", book.Title)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPatch, "/api/v1/books/8", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPatch, "/api/v1/books/missing", `{"rating": 3}`).Code)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, "/api/v1/books/3", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/books/3", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodDelete, "/api/v1/books/3", "").Code)
}

func TestPatchNullBorrowedClearsLoan(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPatch, "/api/v1/books/2", `{"borrowed": null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decodeBook(t, w).Borrowed)

	w = do(t, router, http.MethodGet, "/api/v1/loans", "")
	assert.Empty(t, decodeBooks(t, w))
}

func TestStatusAndProgress(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPut, "/api/v1/books/3/status", `{"status": "completed"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, decodeBook(t, w).Progress)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/v1/books/3/status", `{"status": "lost"}`).Code)

	w = do(t, router, http.MethodPut, "/api/v1/books/8/progress", `{"progress": 150}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, decodeBook(t, w).Progress)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/v1/books/8/progress", `{}`).Code)
}

func TestLoanAndReturn(t *testing.T) {
	router, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/v1/books/8/loan", `{"loanedTo": "  "}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, router, http.MethodPost, "/api/v1/books/8/loan", `{"loanedTo": "Ana", "loanDate": "2024-06-01", "returnDate": "2024-05-01"}`).Code)

	w := do(t, router, http.MethodPost, "/api/v1/books/8/loan", `{"loanedTo": "Ana", "returnDate": "2024-07-01"}`)
	require.Equal(t, http.StatusOK, w.Code)
	book := decodeBook(t, w)
	require.NotNil(t, book.Borrowed)
	assert.True(t, book.Borrowed.IsLoaned)
	assert.Equal(t, "2024-06-01", book.Borrowed.LoanDate.String())

	w = do(t, router, http.MethodGet, "/api/v1/loans", "")
	assert.ElementsMatch(t, []string{"2", "8"}, ids(decodeBooks(t, w)))

	w = do(t, router, http.MethodPost, "/api/v1/books/8/return", "")
	require.Equal(t, http.StatusOK, w.Code)
	book = decodeBook(t, w)
	assert.False(t, book.Borrowed.IsLoaned)
	assert.Equal(t, "Ana", book.Borrowed.LoanedTo)

	w = do(t, router, http.MethodGet, "/api/v1/loans?history", "")
	assert.ElementsMatch(t, []string{"2", "4", "8"}, ids(decodeBooks(t, w)))

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodPost, "/api/v1/books/missing/return", "").Code)
}

func TestSetBorrowing(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodPut, "/api/v1/books/2/borrowing", `null`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeBook(t, w).Borrowed)

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPut, "/api/v1/books/2/borrowing", `{"isLoaned": true}`).Code)

	w = do(t, router, http.MethodPut, "/api/v1/books/2/borrowing", `{"isLoaned": true, "loanedTo": "Sam", "loanDate": "2024-05-20"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Sam", decodeBook(t, w).Borrowed.LoanedTo)
}

func TestCatalogViews(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodGet, "/api/v1/genres", "")
	require.Equal(t, http.StatusOK, w.Code)
	var genres []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &genres))
	assert.Contains(t, genres, "Science Fiction")
	assert.Equal(t, "Adventure", genres[0])

	w = do(t, router, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.CatalogStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 8, stats.Total)
	assert.Equal(t, 1, stats.OnLoan)
	assert.Equal(t, 3, stats.ByStatus[model.StatusCompleted])

	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/api/v1/tags", "").Code)
}

func TestPersistFailureIsServerError(t *testing.T) {
	router, backend := newTestServer(t)
	backend.broken = true

	w := do(t, router, http.MethodPatch, "/api/v1/books/8", `{"rating": 2}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.True(t, bytes.Contains(w.Body.Bytes(), []byte("disk full")))
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestServer(t)

	w := do(t, router, http.MethodOptions, "/api/v1/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
