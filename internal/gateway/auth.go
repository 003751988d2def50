package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// keyContextKey is the unexported key for the caller credential in context.
type keyContextKey struct{}

// authorizer is the part of relay.Service the middleware needs.
type authorizer interface {
	Authorized(key string) bool
}

// authMiddleware rejects requests without an accepted bearer credential
// before the body is read. The credential is stored in the request context
// for the handler, where it doubles as the session key.
func authMiddleware(auth authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := bearerToken(r)
			if !ok || !auth.Authorized(key) {
				logger.Warn("rejected credential",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
					"has_header", r.Header.Get("Authorization") != "",
				)
				writeError(w, http.StatusUnauthorized, "Invalid key")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), keyContextKey{}, key)))
		})
	}
}

// bearerToken extracts the credential from "Authorization: Bearer <key>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// keyFromContext returns the credential stored by authMiddleware.
func keyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(keyContextKey{}).(string)
	return key
}
