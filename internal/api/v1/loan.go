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

type loanRequest struct {
	LoanedTo   string      `json:"loanedTo"`
	LoanDate   model.Date  `json:"loanDate"`
	ReturnDate *model.Date `json:"returnDate"`
}

func (h *Handler) loanBook(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if req.LoanDate.IsZero() {
		req.LoanDate = model.DateOf(h.now())
	}
	if err := validator.ValidateLoan(req.LoanedTo, req.LoanDate, req.ReturnDate); err != nil {
		writeError(w, r, err)
		return
	}

	id := request.RouteStringParam(r, "id")
	book, err := h.store.Loan(id, req.LoanedTo, req.LoanDate, req.ReturnDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	log.Info("Book loaned", zap.String("id", id), zap.String("loanedTo", book.Borrowed.LoanedTo))
	response.OK(w, r, book)
}

func (h *Handler) returnBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.store.ReturnBook(request.RouteStringParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

// setBorrowing replaces the whole borrowing record, a null body clears it.
func (h *Handler) setBorrowing(w http.ResponseWriter, r *http.Request) {
	var borrowed *model.Borrowed
	if err := decodeBody(r, &borrowed); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if borrowed != nil {
		if err := validator.ValidateBookPatch(&model.BookPatch{Borrowed: borrowed}, h.now()); err != nil {
			writeError(w, r, err)
			return
		}
	}

	book, err := h.store.SetBorrowing(request.RouteStringParam(r, "id"), borrowed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.OK(w, r, book)
}

// listLoans returns the books out on loan, ?history adds returned ones.
func (h *Handler) listLoans(w http.ResponseWriter, r *http.Request) {
	if request.HasQueryParam(r, "history") {
		response.OK(w, r, h.store.LoanHistory())
		return
	}
	response.OK(w, r, h.store.Loans())
}
