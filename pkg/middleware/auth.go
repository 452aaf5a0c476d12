package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/productapi/pkg/apperr"
	"github.com/shashiranjanraj/productapi/pkg/auth"
	"github.com/shashiranjanraj/productapi/pkg/logger"
	"github.com/shashiranjanraj/productapi/pkg/metrics"
	"github.com/shashiranjanraj/productapi/pkg/response"
)

// Auth returns the bearer-token gate. A request without an Authorization
// header gets 401 "Token is missing"; any other failure gets 401
// "Unauthorized". On success the verified claims are stored in the request
// context (see auth.ClaimsFromCtx).
//
// denylist may be nil, in which case revocation is not checked.
func Auth(verifier auth.Verifier, denylist auth.Denylist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				reject(w, r, "missing", apperr.ErrMissingToken)
				return
			}

			token, ok := bearerToken(header)
			if !ok {
				reject(w, r, "malformed", apperr.ErrUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				reject(w, r, "invalid", apperr.ErrUnauthorized)
				return
			}

			if denylist != nil && claims.ID != "" {
				revoked, err := denylist.Revoked(r.Context(), claims.ID)
				if err != nil {
					logger.WithCtx(r.Context()).Error("denylist lookup failed", "error", err)
					response.Fail(w, apperr.NewStore(err))
					return
				}
				if revoked {
					reject(w, r, "revoked", apperr.ErrUnauthorized)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(w http.ResponseWriter, r *http.Request, reason string, err *apperr.Error) {
	metrics.RecordAuthFailure(reason)
	logger.WithCtx(r.Context()).Warn("authentication failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
	)
	response.Fail(w, err)
}
