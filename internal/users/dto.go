package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
)

// UserDTO is the transport shape for a user and their client profile.
type UserDTO struct {
	ID             uuid.UUID           `json:"id"`
	Email          string              `json:"email"`
	AuthID         *string             `json:"auth_id,omitempty"`
	Role           enums.Role          `json:"role"`
	Status         enums.Status        `json:"status"`
	Phone          *string             `json:"phone,omitempty"`
	FirstName      *string             `json:"first_name,omitempty"`
	LastName       *string             `json:"last_name,omitempty"`
	DocumentType   *enums.DocumentType `json:"document_type,omitempty"`
	DocumentNumber *string             `json:"document_number,omitempty"`
	Client         *ClientDTO          `json:"client,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ClientDTO is the nested client profile.
type ClientDTO struct {
	ID                  uuid.UUID         `json:"id"`
	ClientType          *enums.ClientType `json:"client_type,omitempty"`
	ProfilePicture      *string           `json:"profile_picture,omitempty"`
	NeedsPasswordChange bool              `json:"needs_password_change"`
	CreatedByAdmin      bool              `json:"created_by_admin"`
	IsExtraDataComplete bool              `json:"is_extra_data_completed"`
	CompanyName         *string           `json:"company_name,omitempty"`
	ContactName         *string           `json:"contact_name,omitempty"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email          string
	AuthID         *string
	Role           enums.Role
	Status         enums.Status
	Phone          *string
	FirstName      *string
	LastName       *string
	DocumentType   *enums.DocumentType
	DocumentNumber *string
}

// ExtraDataPatch carries the personal fields updated by the extra-data flow.
type ExtraDataPatch struct {
	FirstName      string
	LastName       string
	Phone          *string
	DocumentType   enums.DocumentType
	DocumentNumber string
}

// NormalizeEmail is the single email canonicalization applied before every
// read and write.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:             u.ID,
		Email:          u.Email,
		AuthID:         u.AuthID,
		Role:           u.Role,
		Status:         u.Status,
		Phone:          u.Phone,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		DocumentType:   u.DocumentType,
		DocumentNumber: u.DocumentNumber,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	if u.Client != nil {
		dto.Client = &ClientDTO{
			ID:                  u.Client.ID,
			ClientType:          u.Client.ClientType,
			ProfilePicture:      u.Client.ProfilePicture,
			NeedsPasswordChange: u.Client.NeedsPasswordChange,
			CreatedByAdmin:      u.Client.CreatedByAdmin,
			IsExtraDataComplete: u.Client.IsExtraDataComplete,
		}
		if u.Client.Company != nil {
			dto.Client.CompanyName = &u.Client.Company.CompanyName
			dto.Client.ContactName = &u.Client.Company.ContactName
		}
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.RoleCliente
	}
	status := c.Status
	if !status.IsValid() {
		status = enums.StatusActivo
	}

	return &models.User{
		Email:          NormalizeEmail(c.Email),
		AuthID:         c.AuthID,
		Role:           role,
		Status:         status,
		Phone:          c.Phone,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
	}
}
