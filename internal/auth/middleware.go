package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of type contextKey, so only this package
// can read or write the identity value in the context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is the single enforcement point for "must be signed in".
//
// It reads the `Authorization: Bearer <token>` header, verifies the token,
// and stores the resolved Identity in the request context. If the header is
// missing or carries the wrong scheme, the request is rejected before
// verification is even attempted. In either failure case the wrapped handler
// never runs.
//
// Downstream handlers do not re-check authentication; they read the identity
// with IdentityFromContext and are responsible for any stricter ownership
// checks of their own.
func RequireAuth(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			identity, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				// The cause carries verification internals — log it, never
				// return it.
				logger.Warn("token verification failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				writeUnauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the verified caller from the request context.
// Returns (nil, false) if the request did not pass through RequireAuth.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok && identity != nil
}

// ContextWithIdentity returns a context carrying an already-verified
// identity. Request handling goes through RequireAuth; this exists so
// handler tests can stamp an identity without minting tokens.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// writeUnauthorized sends the documented 401 body. Written by hand rather
// than through the handler package's helpers to keep this package free of
// upward imports.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}` + "\n"))
}
