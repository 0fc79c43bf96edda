package controllers

import (
	"context"
	"net/http"

	"github.com/estilosboom/boom-backend/api/responses"
	"github.com/estilosboom/boom-backend/pkg/config"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

// Pinger is the readiness probe contract wired dependencies satisfy.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Boom-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Boom-Env", cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				wrapped := pkgerrors.Wrap(pkgerrors.CodeProvider, err, "dependency unavailable").
					WithDetails(map[string]any{"dependency": name})
				responses.WriteError(r.Context(), logg, w, wrapped)
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
