package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/users"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
)

// UpdateExtraData completes a client profile identified by provider uid.
// The duplicate-document check happens before anything mutates; the user
// patch, client flags and company upsert commit atomically.
func (s *service) UpdateExtraData(ctx context.Context, authID string, req UpdateExtraDataRequest) (*users.UserDTO, error) {
	if authID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el identificador de sesión es obligatorio")
	}
	if !req.DocumentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tipo de documento inválido")
	}
	if req.DocumentNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el número de documento es obligatorio")
	}
	if err := validateConditionalFields(req.ClientType, &req.FirstName, &req.LastName, req.CompanyName, req.ContactName); err != nil {
		return nil, err
	}

	var updated *users.UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		clientRepo := s.clientRepo(tx)

		user, err := userRepo.FindByAuthID(ctx, authID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeClientNotFound, "no existe una cuenta vinculada a esa identidad")
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user by auth id")
		}
		if user.Client == nil {
			return pkgerrors.New(pkgerrors.CodeUserIsNotClient, "la cuenta no corresponde a un cliente")
		}

		// Conflict check before any mutation.
		holder, err := userRepo.FindByDocumentNumber(ctx, req.DocumentNumber)
		switch {
		case err == nil && holder.ID != user.ID:
			return pkgerrors.New(pkgerrors.CodeDocumentExists, "el número de documento ya está registrado")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check document availability")
		}

		if err := userRepo.UpdateExtraData(ctx, user.ID, users.ExtraDataPatch{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Phone:          req.Phone,
			DocumentType:   req.DocumentType,
			DocumentNumber: req.DocumentNumber,
		}); err != nil {
			return classifyCreateUserError(err)
		}

		if err := clientRepo.CompleteExtraData(ctx, user.Client.ID, req.ClientType); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete client extra data")
		}

		if req.ClientType == enums.ClientTypeEmpresa {
			if err := clientRepo.UpsertCompany(ctx, user.Client.ID, *req.CompanyName, *req.ContactName); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "upsert client company")
			}
		}

		refreshed, err := userRepo.FindByID(ctx, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload updated user")
		}
		updated = users.FromModel(refreshed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, updated.ID.String()), "client extra data completed")
	return updated, nil
}

// ResetPasswordChangeFlag clears needs_password_change once the user has
// set their own password.
func (s *service) ResetPasswordChangeFlag(ctx context.Context, userID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		err := s.clientRepo(tx).SetNeedsPasswordChange(ctx, userID, false)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeClientNotFound, "no existe un cliente para ese usuario")
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset password change flag")
		}
		return nil
	})
}
