// Package bind decodes an HTTP request body into a typed request struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/productapi/config"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
)

// JSON decodes r.Body into dest. Unknown fields, trailing data, malformed JSON
// and bodies larger than MAX_BODY_BYTES are rejected with a Validation error.
// An empty body leaves dest untouched.
func JSON(r *http.Request, dest interface{}) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return decodeError(err)
	}

	if dec.More() {
		return apperr.NewValidation("invalid JSON: unexpected data after the request body")
	}
	return nil
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.Wrap(apperr.Validation, fmt.Sprintf("request body too large (max %d bytes)", maxErr.Limit), err)
	}

	// encoding/json reports unknown fields only through the message text.
	if msg := err.Error(); strings.HasPrefix(msg, "json: unknown field ") {
		return apperr.Wrap(apperr.Validation, strings.TrimPrefix(msg, "json: "), err)
	}

	return apperr.Wrap(apperr.Validation, "invalid JSON: "+err.Error(), err)
}
