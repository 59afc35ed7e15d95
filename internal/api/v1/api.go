// Package v1 serves the catalog as a JSON API under /api/v1.
package v1 // import "github.com/Xunop/e-shelf/internal/api/v1"

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Xunop/e-shelf/internal/middleware"
	"github.com/Xunop/e-shelf/internal/store"
)

type Handler struct {
	store   *store.Store
	limiter *middleware.IPRateLimiter
	// now bounds the publication year and defaults loan dates.
	now func() time.Time
}

// NewHandler is a constructor for the v1.Handler. A nil limiter disables
// rate limiting.
func NewHandler(store *store.Store, limiter *middleware.IPRateLimiter) *Handler {
	return &Handler{
		store:   store,
		limiter: limiter,
		now:     time.Now,
	}
}

func Server(router *mux.Router, handler *Handler) {
	sr := router.PathPrefix("/api/v1").Subrouter()
	middleware := middleware.NewMiddleware(handler.limiter)
	sr.Use(middleware.HandleCORS)
	sr.Use(middleware.LoggingRequest)
	sr.Use(middleware.RateLimit)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.addBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id}", handler.updateBook).Methods(http.MethodPatch)
	sr.HandleFunc("/books/{id}", handler.deleteBook).Methods(http.MethodDelete)
	sr.HandleFunc("/books/{id}/status", handler.setStatus).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}/progress", handler.setProgress).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}/borrowing", handler.setBorrowing).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id}/loan", handler.loanBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/{id}/return", handler.returnBook).Methods(http.MethodPost)
	sr.HandleFunc("/loans", handler.listLoans).Methods(http.MethodGet)
	sr.HandleFunc("/genres", handler.listGenres).Methods(http.MethodGet)
	sr.HandleFunc("/tags", handler.listTags).Methods(http.MethodGet)
	sr.HandleFunc("/stats", handler.getStats).Methods(http.MethodGet)
}
