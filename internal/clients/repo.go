package clients

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
)

// Repository exposes client-profile persistence operations, including the
// one-to-one company record for Empresa clients.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a clients repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a client profile. Always called in the same transaction
// as its parent user.
func (r *Repository) Create(ctx context.Context, dto CreateClientDTO) (*models.Client, error) {
	client := &models.Client{
		UserID:              dto.UserID,
		ClientType:          dto.ClientType,
		ProfilePicture:      dto.ProfilePicture,
		NeedsPasswordChange: dto.NeedsPasswordChange,
		CreatedByAdmin:      dto.CreatedByAdmin,
	}
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}

// FindByUserID loads the client profile for a user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("user_id = ?", userID).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// CompleteExtraData sets the client type and marks the profile complete.
func (r *Repository) CompleteExtraData(ctx context.Context, clientID uuid.UUID, clientType enums.ClientType) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", clientID).
		Updates(map[string]any{
			"client_type":             clientType,
			"is_extra_data_completed": true,
		}).Error
}

// SetNeedsPasswordChange flips the forced-change flag for a user's client.
func (r *Repository) SetNeedsPasswordChange(ctx context.Context, userID uuid.UUID, value bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("user_id = ?", userID).
		Update("needs_password_change", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertCompany creates or updates the company record attached to a client.
func (r *Repository) UpsertCompany(ctx context.Context, clientID uuid.UUID, companyName, contactName string) error {
	var company models.ClientCompany
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		First(&company).Error
	switch {
	case err == nil:
		return r.db.WithContext(ctx).
			Model(&company).
			Updates(map[string]any{
				"company_name": companyName,
				"contact_name": contactName,
			}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return r.db.WithContext(ctx).Create(&models.ClientCompany{
			ClientID:    clientID,
			CompanyName: companyName,
			ContactName: contactName,
		}).Error
	default:
		return err
	}
}

// CreateCompany inserts a company record for a freshly created Empresa client.
func (r *Repository) CreateCompany(ctx context.Context, clientID uuid.UUID, companyName, contactName string) (*models.ClientCompany, error) {
	company := &models.ClientCompany{
		ClientID:    clientID,
		CompanyName: companyName,
		ContactName: contactName,
	}
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}
