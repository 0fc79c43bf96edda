package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/db/models"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
// Services create one per transaction when they need atomicity.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the normalized email, with the
// client profile and company preloaded.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Client.Company").
		Where("email = ?", NormalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByAuthID retrieves the user linked to the provider uid.
func (r *Repository) FindByAuthID(ctx context.Context, authID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Client.Company").
		Where("auth_id = ?", authID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Client.Company").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByDocumentNumber retrieves the user holding the document number.
func (r *Repository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("document_number = ?", documentNumber).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateAuthID backfills the provider link. Callers only invoke this when
// auth_id is still empty; it is never reassigned.
func (r *Repository) UpdateAuthID(ctx context.Context, id uuid.UUID, authID string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("auth_id", authID).Error
}

// UpdateExtraData overwrites the personal fields captured by the
// extra-data flow.
func (r *Repository) UpdateExtraData(ctx context.Context, id uuid.UUID, patch ExtraDataPatch) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"first_name":      patch.FirstName,
			"last_name":       patch.LastName,
			"phone":           patch.Phone,
			"document_type":   patch.DocumentType,
			"document_number": patch.DocumentNumber,
		}).Error
}
