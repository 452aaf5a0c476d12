package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/productapi/pkg/logger"
	"github.com/shashiranjanraj/productapi/pkg/reqid"
	"github.com/shashiranjanraj/productapi/pkg/response"
)

// Recovery turns a handler panic into 500 {"error":"Internal Server Error"}
// and logs the stack. http.ErrAbortHandler is re-raised so net/http can
// abort the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			// reqid runs inside Recovery, so the id is only visible on the
			// response headers here.
			logger.WithCtx(r.Context()).Error("panic recovered",
				"request_id", w.Header().Get(reqid.Header),
				"panic", fmt.Sprint(rec),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
