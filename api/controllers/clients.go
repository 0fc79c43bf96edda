package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/estilosboom/boom-backend/api/middleware"
	"github.com/estilosboom/boom-backend/api/responses"
	"github.com/estilosboom/boom-backend/api/validators"
	clientsvc "github.com/estilosboom/boom-backend/internal/clients"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/pagination"
	"github.com/estilosboom/boom-backend/pkg/types"
)

// ClientRegister handles the public landing signup.
func ClientRegister(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "client service unavailable"))
			return
		}

		var body clientsvc.RegisterLandingRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.RegisterLanding(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"user": user})
	}
}

// ClientValidateEmail reports whether an email is free to register.
func ClientValidateEmail(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(chi.URLParam(r, "email"))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email required"))
			return
		}

		if err := svc.ValidateEmailNotRegistered(r.Context(), email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"available": true})
	}
}

// ClientForgotPassword queues a password reset email for a client account.
func ClientForgotPassword(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body clientsvc.ForgotPasswordRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SendPasswordResetEmail(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Message{Message: "correo de recuperación enviado"})
	}
}

// ClientCreateAdmin provisions a client account with temp credentials.
func ClientCreateAdmin(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body clientsvc.CreateClientAdminRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.CreateClientAdmin(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"user": user})
	}
}

// ClientUpdateExtraData completes the profile of the client identified by
// the uid path segment. A client may only complete its own profile.
func ClientUpdateExtraData(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(chi.URLParam(r, "uid"))
		if uid == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "uid required"))
			return
		}
		if actor := middleware.AuthUIDFromContext(r.Context()); actor != "" && actor != uid {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "profile does not belong to caller"))
			return
		}

		var body clientsvc.UpdateExtraDataRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateExtraData(r.Context(), uid, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"user": user})
	}
}

// ClientResetPasswordFlag clears the forced-password-change flag by user id.
func ClientResetPasswordFlag(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
			return
		}

		if err := svc.ResetPasswordChangeFlag(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Message{Message: "indicador restablecido"})
	}
}

// ClientListCustomers pages through registered customers for the back office.
func ClientListCustomers(svc clientsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := clientsvc.ListCustomersParams{
			Pagination: pagination.Params{
				Limit:     limit,
				Offset:    offset,
				SortField: r.URL.Query().Get("sort_field"),
				SortOrder: r.URL.Query().Get("sort_order"),
			},
			Search: r.URL.Query().Get("search"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("client_type")); raw != "" {
			clientType, err := enums.ParseClientType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client type"))
				return
			}
			params.ClientType = &clientType
		}

		page, err := svc.ListCustomers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}
