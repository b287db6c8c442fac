package decoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/the127/keyv/internal/utils/apiError"
)

// MaxBodyBytes bounds request bodies, mset batches included.
const MaxBodyBytes = 4 << 20

// HttpBodyAsJson decodes exactly one json document into v. Unknown fields,
// trailing data and oversized bodies are bad requests.
func HttpBodyAsJson(w http.ResponseWriter, r *http.Request, v any) error {
	err := requireJson(r.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err = decoder.Decode(v)
	if err != nil {
		return decodeError(err)
	}

	err = decoder.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected trailing data: %w", apiError.ErrApiBadRequest)
	}

	return nil
}

func requireJson(contentType string) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("expected application/json, got %q: %w", contentType, apiError.ErrApiUnsupportedMediaType)
	}
	return nil
}

func decodeError(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError

	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("invalid JSON syntax at position %d: %w", syntaxError.Offset, apiError.ErrApiBadRequest)

	// https://github.com/golang/go/issues/25956.
	case errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("invalid JSON syntax: %w", apiError.ErrApiBadRequest)

	case errors.As(err, &unmarshalTypeError):
		return fmt.Errorf("field %q expects %s: %w", unmarshalTypeError.Field, unmarshalTypeError.Type, apiError.ErrApiBadRequest)

	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Errorf("unknown field %s: %w", field, apiError.ErrApiBadRequest)

	case errors.Is(err, io.EOF):
		return fmt.Errorf("request body is empty: %w", apiError.ErrApiBadRequest)

	case errors.As(err, &maxBytesError):
		return fmt.Errorf("request body exceeds %d bytes: %w", maxBytesError.Limit, apiError.ErrApiBadRequest)

	default:
		return fmt.Errorf("failed to decode request body: %w", err)
	}
}
