package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/estilosboom/boom-backend/api/responses"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/identity"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

type tokenVerifier interface {
	VerifyToken(ctx context.Context, idToken string) (*identity.TokenClaims, error)
}

// Auth verifies the bearer ID token against the identity provider and seeds
// the request context with the resolved uid and role claim.
func Auth(verifier tokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.UID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing uid claim"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxAuthUID, claims.UID)
			ctx = context.WithValue(ctx, ctxRole, claims.Role)

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"auth_uid":   claims.UID,
					"actor_role": claims.Role,
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
