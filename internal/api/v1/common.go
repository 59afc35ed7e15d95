package v1

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/Xunop/e-shelf/internal/http/response"
	"github.com/Xunop/e-shelf/internal/store"
	"github.com/Xunop/e-shelf/internal/validator"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodySize bounds a JSON request body.
const maxBodySize = 1 << 20

var errEmptyBody = errors.New("request body is empty")

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "invalid JSON body")
	}
	return nil
}

// writeError maps store and validation errors to HTTP responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fields validator.Errors
	switch {
	case errors.As(err, &fields):
		response.InvalidFields(w, r, errors.New("invalid book"), fields)
	case errors.Is(err, store.ErrBookNotFound):
		response.NotFound(w, r)
	case errors.Is(err, store.ErrLoanedToRequired), errors.Is(err, store.ErrInvalidStatus):
		response.BadRequest(w, r, err)
	default:
		response.ServerError(w, r, err)
	}
}
