package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/clients"
	"github.com/estilosboom/boom-backend/internal/users"
	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/identity"
	"github.com/estilosboom/boom-backend/pkg/logger"
)

// Service reconciles provider identities with local accounts on login.
type Service interface {
	Sync(ctx context.Context, uid string) (*users.UserDTO, error)
}

// TxRunner abstracts the transactional database client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type syncUserRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateAuthID(ctx context.Context, id uuid.UUID, authID string) error
}

type syncClientRepository interface {
	Create(ctx context.Context, dto clients.CreateClientDTO) (*models.Client, error)
}

// ServiceParams packages the sync service dependencies. The repo factories
// default to the real repositories; tests substitute stubs.
type ServiceParams struct {
	TxRunner          TxRunner
	Provider          identity.Provider
	Logger            *logger.Logger
	UserRepoFactory   func(tx *gorm.DB) syncUserRepository
	ClientRepoFactory func(tx *gorm.DB) syncClientRepository
}

type service struct {
	tx         TxRunner
	provider   identity.Provider
	logg       *logger.Logger
	userRepo   func(tx *gorm.DB) syncUserRepository
	clientRepo func(tx *gorm.DB) syncClientRepository
}

// NewService builds the identity sync service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity provider required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}

	userRepo := params.UserRepoFactory
	if userRepo == nil {
		userRepo = func(tx *gorm.DB) syncUserRepository { return users.NewRepository(tx) }
	}
	clientRepo := params.ClientRepoFactory
	if clientRepo == nil {
		clientRepo = func(tx *gorm.DB) syncClientRepository { return clients.NewRepository(tx) }
	}

	return &service{
		tx:         params.TxRunner,
		provider:   params.Provider,
		logg:       params.Logger,
		userRepo:   userRepo,
		clientRepo: clientRepo,
	}, nil
}

// Sync reconciles the provider record for uid with the local account,
// creating it on first login and backfilling the provider link otherwise.
// Safe to call repeatedly; concurrent first logins collapse onto the same
// row via the email uniqueness constraint.
func (s *service) Sync(ctx context.Context, uid string) (*users.UserDTO, error) {
	if uid == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity uid required")
	}

	record, err := s.provider.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	email, err := resolveEmail(record)
	if err != nil {
		return nil, err
	}

	user, err := s.findAndLink(ctx, email, uid)
	switch {
	case err == nil:
		// linked existing account
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.createAccount(ctx, email, uid, record)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.provider.SetRoleClaim(ctx, uid, user.Role); err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": user.ID.String(), "role": user.Role.String()})
	s.logg.Info(ctx, "identity synchronized")
	return users.FromModel(user), nil
}

// resolveEmail picks the effective address: the primary one, else the first
// linked-provider email. An identity without any email cannot be synced.
func resolveEmail(record *identity.UserRecord) (string, error) {
	email := users.NormalizeEmail(record.Email)
	if email == "" && len(record.ProviderEmails) > 0 {
		email = users.NormalizeEmail(record.ProviderEmails[0])
	}
	if email == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "identity has no email")
	}
	return email, nil
}

// findAndLink loads the account by email and backfills auth_id when it is
// still empty. A non-empty auth_id is never reassigned.
func (s *service) findAndLink(ctx context.Context, email, uid string) (*models.User, error) {
	var user *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.userRepo(tx)

		found, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if found.AuthID == nil || *found.AuthID == "" {
			if err := repo.UpdateAuthID(ctx, found.ID, uid); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "link auth id")
			}
			found.AuthID = &uid
		}
		user = found
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user by email")
	}
	return user, nil
}

// createAccount creates the User and Client rows for a first login. When a
// concurrent sync wins the insert race, the unique violation is absorbed by
// re-reading and linking the surviving row.
func (s *service) createAccount(ctx context.Context, email, uid string, record *identity.UserRecord) (*models.User, error) {
	var user *models.User
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)
		clientRepo := s.clientRepo(tx)

		created, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:  email,
			AuthID: &uid,
		})
		if err != nil {
			return err
		}

		var photo *string
		if record.PhotoURL != "" {
			photo = &record.PhotoURL
		}
		client, err := clientRepo.Create(ctx, clients.CreateClientDTO{
			UserID:         created.ID,
			ProfilePicture: photo,
		})
		if err != nil {
			return err
		}

		created.Client = client
		user = created
		return nil
	})
	if err == nil {
		return user, nil
	}

	if db.IsUniqueViolation(err, "ux_users_email") {
		// Lost a concurrent first-login race; the other sync created the row.
		user, err := s.findAndLink(ctx, email, uid)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user after insert race")
		}
		return user, nil
	}
	if pkgerrors.As(err) != nil {
		return nil, err
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user and client")
}
