// Package auth authenticates callers at the HTTP boundary. A bearer JWT
// carries the principal identity in its subject claim; the engines receive
// the identity and make their own authorization decisions through the authz
// port.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "coverline/pkg/domain"
	dErrors "coverline/pkg/domain-errors"
)

type contextKeyPrincipal struct{}

// Verifier validates HS256 bearer tokens.
type Verifier struct {
	key []byte
}

func NewVerifier(signingKey string) *Verifier {
	return &Verifier{key: []byte(signingKey)}
}

// Principal parses and validates a token and returns the subject identity.
func (v *Verifier) Principal(tokenString string) (id.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
		}
		return v.key, nil
	})
	if err != nil || !token.Valid {
		return "", dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid bearer token")
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token has no subject")
	}
	return id.ParseIdentity(subject)
}

// Sign mints a token for a principal. Used by tests and local tooling; token
// issuance is otherwise outside this system's scope.
func (v *Verifier) Sign(principal id.Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": principal.String(),
	})
	return token.SignedString(v.key)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal in the request context.
func RequireAuth(verifier *Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				unauthorized(w)
				return
			}
			principal, err := verifier.Principal(tokenString)
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "bearer token rejected", "error", err)
				}
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), contextKeyPrincipal{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithPrincipal stores a principal in the context the way RequireAuth does.
// Intended for tests that exercise handlers without the middleware.
func WithPrincipal(ctx context.Context, principal id.Identity) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, principal)
}

// PrincipalFrom returns the authenticated principal, or the zero identity
// when the request was not authenticated.
func PrincipalFrom(ctx context.Context) id.Identity {
	principal, _ := ctx.Value(contextKeyPrincipal{}).(id.Identity)
	return principal
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"bearer token required"}`))
}
