package v1

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/Xunop/e-shelf/internal/http/request"
	"github.com/Xunop/e-shelf/internal/http/response"
	"github.com/Xunop/e-shelf/internal/log"
	"github.com/Xunop/e-shelf/internal/model"
	"github.com/Xunop/e-shelf/internal/validator"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find, err := findBookFromQuery(r)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	response.OK(w, r, h.store.ListBooks(find))
}

// findBookFromQuery reads ?q=&genre=&status=&rating=&sort=&order=. genre and
// status take repeated or comma separated values.
func findBookFromQuery(r *http.Request) (*model.FindBook, error) {
	find := &model.FindBook{}
	find.Filters.Query = request.QueryStringParam(r, "q", "")
	find.Filters.Genre = request.QueryStringListParam(r, "genre")
	for _, s := range request.QueryStringListParam(r, "status") {
		status, err := model.ParseStatus(s)
		if err != nil {
			return nil, err
		}
		find.Filters.Status = append(find.Filters.Status, status)
	}
	rating, err := request.QueryFloatParam(r, "rating")
	if err != nil {
		return nil, err
	}
	find.Filters.Rating = rating

	if find.SortBy, err = model.ParseSortKey(request.QueryStringParam(r, "sort", "")); err != nil {
		return nil, err
	}
	if find.Order, err = model.ParseSortOrder(request.QueryStringParam(r, "order", "")); err != nil {
		return nil, err
	}
	return find, nil
}

func (h *Handler) addBook(w http.ResponseWriter, r *http.Request) {
	var draft model.BookDraft
	if err := decodeBody(r, &draft); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookDraft(&draft, h.now()); err != nil {
		writeError(w, r, err)
		return
	}

	book, err := h.store.AddBook(&draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info("Book added", zap.String("id", book.ID), zap.String("title", book.Title))
	response.Created(w, r, book)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.store.GetBook(request.RouteStringParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	var patch model.BookPatch
	if err := decodeBody(r, &patch); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookPatch(&patch, h.now()); err != nil {
		writeError(w, r, err)
		return
	}

	book, err := h.store.UpdateBook(request.RouteStringParam(r, "id"), &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id := request.RouteStringParam(r, "id")
	if err := h.store.DeleteBook(id); err != nil {
		writeError(w, r, err)
		return
	}
	log.Info("Book deleted", zap.String("id", id))
	response.NoContent(w, r)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	status, err := model.ParseStatus(req.Status)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	book, err := h.store.SetStatus(request.RouteStringParam(r, "id"), status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

// setProgress clamps out of range values instead of rejecting them.
func (h *Handler) setProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if req.Progress == nil {
		writeError(w, r, validator.Errors{"progress": "Progress is required"})
		return
	}

	book, err := h.store.SetProgress(request.RouteStringParam(r, "id"), *req.Progress)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}
