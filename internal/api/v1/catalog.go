package v1

import (
	"net/http"

	"github.com/Xunop/e-shelf/internal/http/response"
)

func (h *Handler) listGenres(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.store.Genres())
}

func (h *Handler) listTags(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.store.Tags())
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	response.OK(w, r, h.store.Stats())
}
