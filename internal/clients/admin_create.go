package clients

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/mailer"
	"github.com/estilosboom/boom-backend/internal/users"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/jobs"
	"github.com/estilosboom/boom-backend/pkg/security"
)

// CreateClientAdmin provisions a client on behalf of an administrator. All
// validation runs before any side effect; the provider account is created
// before any local write so a provider failure leaves the database
// untouched. The temporary password only travels through the provider and
// the credentials mail job.
func (s *service) CreateClientAdmin(ctx context.Context, req CreateClientAdminRequest) (*users.UserDTO, error) {
	email := users.NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el email es obligatorio")
	}
	if !req.DocumentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tipo de documento inválido")
	}
	if req.DocumentNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "el número de documento es obligatorio")
	}
	if err := validateConditionalFields(req.ClientType, req.FirstName, req.LastName, req.CompanyName, req.ContactName); err != nil {
		return nil, err
	}

	if err := s.checkAdminCreateUniqueness(ctx, email, req.DocumentNumber); err != nil {
		return nil, err
	}

	tempPassword, err := s.tempPassword(security.TempPasswordLength)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
	}

	// Provider first: a failure here must not leave local state behind.
	uid, err := s.provider.CreateUser(ctx, email, tempPassword)
	if err != nil {
		return nil, err
	}

	var created *users.UserDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		clientRepo := s.clientRepo(tx)

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:          email,
			AuthID:         &uid,
			Phone:          req.Phone,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			DocumentType:   &req.DocumentType,
			DocumentNumber: &req.DocumentNumber,
		})
		if err != nil {
			return classifyCreateUserError(err)
		}

		clientType := req.ClientType
		client, err := clientRepo.Create(ctx, CreateClientDTO{
			UserID:              user.ID,
			ClientType:          &clientType,
			NeedsPasswordChange: true,
			CreatedByAdmin:      true,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create client profile")
		}

		if clientType == enums.ClientTypeEmpresa {
			company, err := clientRepo.CreateCompany(ctx, client.ID, *req.CompanyName, *req.ContactName)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create client company")
			}
			client.Company = company
		}

		user.Client = client
		created = users.FromModel(user)
		return nil
	})
	if err != nil {
		// The provider account already exists; without this delete the
		// email would stay permanently unregisterable.
		if delErr := s.provider.DeleteUser(ctx, uid); delErr != nil {
			s.logg.Error(s.logg.WithField(ctx, "provider_uid", uid), "provider account rollback failed", delErr)
		}
		return nil, err
	}

	payload := mailer.TempCredentialsPayload{
		Email:        email,
		Name:         displayName(req),
		TempPassword: tempPassword,
	}
	if _, err := s.dispatcher.Enqueue(ctx, jobs.QueueForgotPassword, jobs.JobSendTemporalCredentials, payload); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, created.ID.String()), "admin-created client provisioned")
	return created, nil
}

func (s *service) checkAdminCreateUniqueness(ctx context.Context, email, documentNumber string) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeEmailExists, "el correo ya fue registrado previamente")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email availability")
		}

		if _, err := userRepo.FindByDocumentNumber(ctx, documentNumber); err == nil {
			return pkgerrors.New(pkgerrors.CodeDocumentExists, "el número de documento ya está registrado")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check document availability")
		}
		return nil
	})
}

func displayName(req CreateClientAdminRequest) string {
	if req.ClientType == enums.ClientTypeEmpresa && req.ContactName != nil {
		return *req.ContactName
	}
	if req.FirstName != nil {
		return *req.FirstName
	}
	return ""
}
