package apiError

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/the127/keyv/internal/args"
	"github.com/the127/keyv/internal/keyv"
	"github.com/the127/keyv/internal/logging"
	"github.com/the127/keyv/internal/services/namespaces"
)

var ErrApiBadRequest = errors.New("bad Request")
var ErrApiUnsupportedMediaType = errors.New("unsupported media type")

var ErrApiNotFound = errors.New("not found")
var ErrApiValueNotFound = fmt.Errorf("value not found: %w", ErrApiNotFound)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Status maps an error to its http status and the message shown to clients.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, ErrApiBadRequest),
		errors.Is(err, keyv.ErrInvalidTTL),
		errors.Is(err, keyv.ErrLengthMismatch),
		errors.Is(err, namespaces.ErrInvalidNamespace):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, ErrApiNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, ErrApiUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, err.Error()

	case errors.Is(err, keyv.ErrDecode), errors.Is(err, keyv.ErrUnsupportedRaw):
		if args.IsProduction() {
			return http.StatusUnprocessableEntity, "stored value is unreadable"
		}
		return http.StatusUnprocessableEntity, err.Error()

	default:
		if args.IsProduction() {
			return http.StatusInternalServerError, "Internal Server Error"
		}
		return http.StatusInternalServerError, err.Error()
	}
}

func HandleHttpError(w http.ResponseWriter, err error) {
	code, message := Status(err)

	logging.Logger.Errorf("HTTP Error: %d %s", code, message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    http.StatusText(code),
		Message: message,
	})
}
