package controllers

import (
	"net/http"

	"github.com/estilosboom/boom-backend/api/middleware"
	"github.com/estilosboom/boom-backend/api/responses"
	identitysvc "github.com/estilosboom/boom-backend/internal/identity"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

// AuthSync reconciles the authenticated provider identity with the local
// account and returns the resolved user.
func AuthSync(svc identitysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		uid := middleware.AuthUIDFromContext(r.Context())
		if uid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
			return
		}

		user, err := svc.Sync(r.Context(), uid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}
