package clients

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/mailer"
	"github.com/estilosboom/boom-backend/internal/users"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/jobs"
)

// SendPasswordResetEmail validates the account, generates the provider
// reset link and enqueues the mail job. The enqueue insert is the
// acceptance acknowledgement; delivery happens asynchronously.
func (s *service) SendPasswordResetEmail(ctx context.Context, email string) error {
	normalized := users.NormalizeEmail(email)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "el email es obligatorio")
	}

	var user *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		found, err := s.userRepo(tx).FindByEmail(ctx, normalized)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.New(pkgerrors.CodeClientNotFound, "no existe una cuenta con ese correo")
		case err != nil:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user by email")
		}
		user = found
		return nil
	})
	if err != nil {
		return err
	}

	if user.Role != enums.RoleCliente {
		return pkgerrors.New(pkgerrors.CodeUserIsNotClient, "la cuenta no corresponde a un cliente")
	}

	link, err := s.provider.PasswordResetLink(ctx, normalized)
	if err != nil {
		return err
	}

	payload := mailer.PasswordResetPayload{
		Email:     normalized,
		Name:      firstNameOrEmpty(user),
		ResetLink: link,
	}
	if _, err := s.dispatcher.Enqueue(ctx, jobs.QueueForgotPassword, jobs.JobSendPasswordResetLink, payload); err != nil {
		return err
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "password reset mail enqueued")
	return nil
}

func firstNameOrEmpty(user *models.User) string {
	if user.FirstName != nil {
		return *user.FirstName
	}
	return ""
}
