package clients

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/users"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/identity"
	"github.com/estilosboom/boom-backend/pkg/jobs"
	"github.com/estilosboom/boom-backend/pkg/logger"
	"github.com/estilosboom/boom-backend/pkg/pagination"
)

// Service exposes the client lifecycle operations.
type Service interface {
	RegisterLanding(ctx context.Context, req RegisterLandingRequest) (*users.UserDTO, error)
	ValidateEmailNotRegistered(ctx context.Context, email string) error
	SendPasswordResetEmail(ctx context.Context, email string) error
	CreateClientAdmin(ctx context.Context, req CreateClientAdminRequest) (*users.UserDTO, error)
	UpdateExtraData(ctx context.Context, authID string, req UpdateExtraDataRequest) (*users.UserDTO, error)
	ResetPasswordChangeFlag(ctx context.Context, userID uuid.UUID) error
	ListCustomers(ctx context.Context, params ListCustomersParams) (*pagination.Page[users.UserDTO], error)
}

// TxRunner abstracts the transactional database client.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByAuthID(ctx context.Context, authID string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*models.User, error)
	UpdateExtraData(ctx context.Context, id uuid.UUID, patch users.ExtraDataPatch) error
}

type clientRepository interface {
	Create(ctx context.Context, dto CreateClientDTO) (*models.Client, error)
	CompleteExtraData(ctx context.Context, clientID uuid.UUID, clientType enums.ClientType) error
	SetNeedsPasswordChange(ctx context.Context, userID uuid.UUID, value bool) error
	UpsertCompany(ctx context.Context, clientID uuid.UUID, companyName, contactName string) error
	CreateCompany(ctx context.Context, clientID uuid.UUID, companyName, contactName string) (*models.ClientCompany, error)
	ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.User, int64, error)
}

type jobDispatcher interface {
	Enqueue(ctx context.Context, queue, name string, payload any, opts ...jobs.Option) (uuid.UUID, error)
}

type tempPasswordFunc func(length int) (string, error)

// ServiceParams packages the service dependencies. The repo factories
// default to the real repositories; tests substitute stubs.
type ServiceParams struct {
	TxRunner          TxRunner
	Identity          identity.Provider
	Dispatcher        jobDispatcher
	Logger            *logger.Logger
	UserRepoFactory   func(tx *gorm.DB) userRepository
	ClientRepoFactory func(tx *gorm.DB) clientRepository
	TempPassword      tempPasswordFunc
}

type service struct {
	tx           TxRunner
	provider     identity.Provider
	dispatcher   jobDispatcher
	logg         *logger.Logger
	userRepo     func(tx *gorm.DB) userRepository
	clientRepo   func(tx *gorm.DB) clientRepository
	tempPassword tempPasswordFunc
}

// NewService builds the client service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Identity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "identity provider required")
	}
	if params.Dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "job dispatcher required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}

	userRepo := params.UserRepoFactory
	if userRepo == nil {
		userRepo = func(tx *gorm.DB) userRepository { return users.NewRepository(tx) }
	}
	clientRepo := params.ClientRepoFactory
	if clientRepo == nil {
		clientRepo = func(tx *gorm.DB) clientRepository { return NewRepository(tx) }
	}
	tempPassword := params.TempPassword
	if tempPassword == nil {
		tempPassword = defaultTempPassword
	}

	return &service{
		tx:           params.TxRunner,
		provider:     params.Identity,
		dispatcher:   params.Dispatcher,
		logg:         params.Logger,
		userRepo:     userRepo,
		clientRepo:   clientRepo,
		tempPassword: tempPassword,
	}, nil
}
