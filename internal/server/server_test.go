package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/database"
	"github.com/Xunop/e-shelf/internal/storage"
	"github.com/Xunop/e-shelf/internal/store"
	"github.com/Xunop/e-shelf/internal/version"
)

func newHandler(t *testing.T) (http.Handler, *database.DB) {
	t.Helper()
	db, err := database.Open(t.TempDir() + "/e-shelf.db")
	require.NoError(t, err)
	backend, err := storage.NewSQLiteStorage(db)
	require.NoError(t, err)
	s, err := store.Open(backend, "library", false)
	require.NoError(t, err)

	opts := config.GetDefaultOptions()
	opts.RateLimit = 0
	return setupHandler(s, opts), db
}

func TestHealthcheckAndVersion(t *testing.T) {
	h, _ := newHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, version.GetCurrentVersion(), w.Body.String())
}

func TestHealthcheckFailsWhenDatabaseIsClosed(t *testing.T) {
	h, db := newHandler(t)
	require.NoError(t, db.Close())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAPIIsMounted(t *testing.T) {
	h, _ := newHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/books/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
