package clients

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/users"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/security"
)

func defaultTempPassword(length int) (string, error) {
	return security.GenerateTempPassword(length)
}

// ValidateEmailNotRegistered reports EMAIL_ALREADY_EXISTS when the address
// is already taken, and nothing otherwise.
func (s *service) ValidateEmailNotRegistered(ctx context.Context, email string) error {
	normalized := users.NormalizeEmail(email)
	if normalized == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "el email es obligatorio")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.userRepo(tx).FindByEmail(ctx, normalized)
		switch {
		case err == nil:
			return pkgerrors.New(pkgerrors.CodeEmailExists, "el correo ya fue registrado previamente")
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email availability")
		}
	})
}

// RegisterLanding handles the public signup flow: the provider account is
// provisioned first, then the local User and Client rows are created in one
// transaction with the provider uid already linked.
func (s *service) RegisterLanding(ctx context.Context, req RegisterLandingRequest) (*users.UserDTO, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el email es obligatorio")
	}

	if err := s.ValidateEmailNotRegistered(ctx, email); err != nil {
		return nil, err
	}

	uid, err := s.provider.CreateUser(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}

	var created *users.UserDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		clientRepo := s.clientRepo(tx)

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:     email,
			AuthID:    &uid,
			FirstName: &req.FirstName,
			LastName:  &req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			return classifyCreateUserError(err)
		}

		client, err := clientRepo.Create(ctx, CreateClientDTO{UserID: user.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create client profile")
		}

		user.Client = client
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "landing registration completed")
	return created, nil
}
