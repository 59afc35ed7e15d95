package server // import "github.com/Xunop/e-shelf/internal/server"

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	v1 "github.com/Xunop/e-shelf/internal/api/v1"
	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/middleware"
	"github.com/Xunop/e-shelf/internal/store"
	"github.com/Xunop/e-shelf/internal/version"
)

const shutdownTimeout = 10 * time.Second

// StartServer serves the catalog until ctx is cancelled, then shuts the
// server down gracefully.
func StartServer(ctx context.Context, store *store.Store, opts *config.Options) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler:           setupHandler(store, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "HTTP server error")
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down HTTP server")
	}
	return nil
}

func setupHandler(store *store.Store, opts *config.Options) http.Handler {
	router := mux.NewRouter()

	limiter := middleware.NewIPRateLimiter(opts.RateLimit, opts.RateBurst)
	apiHandler := v1.NewHandler(store, limiter)
	v1.Server(router, apiHandler)

	router.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(); err != nil {
			log.Error("Healthcheck failed", zap.Error(err))
			http.Error(w, "Database Connection Error", http.StatusInternalServerError)
			return
		}

		w.Write([]byte("OK"))
	}).Name("healthcheck")

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router
}
