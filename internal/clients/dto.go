package clients

import (
	"github.com/google/uuid"

	"github.com/estilosboom/boom-backend/pkg/enums"
)

// RegisterLandingRequest is the public signup payload.
type RegisterLandingRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name" validate:"required"`
	Phone     *string `json:"phone,omitempty"`
}

// CreateClientAdminRequest is the admin-side client provisioning payload.
// Persona requires personal names; Empresa requires company fields. The
// conditional checks run before any provider or storage call.
type CreateClientAdminRequest struct {
	Email          string             `json:"email" validate:"required,email"`
	ClientType     enums.ClientType   `json:"client_type" validate:"required"`
	FirstName      *string            `json:"first_name,omitempty"`
	LastName       *string            `json:"last_name,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	DocumentType   enums.DocumentType `json:"document_type" validate:"required"`
	DocumentNumber string             `json:"document_number" validate:"required"`
	CompanyName    *string            `json:"company_name,omitempty"`
	ContactName    *string            `json:"contact_name,omitempty"`
}

// UpdateExtraDataRequest completes a client profile after first login.
type UpdateExtraDataRequest struct {
	FirstName      string             `json:"first_name" validate:"required"`
	LastName       string             `json:"last_name" validate:"required"`
	Phone          *string            `json:"phone,omitempty"`
	ClientType     enums.ClientType   `json:"client_type" validate:"required"`
	DocumentType   enums.DocumentType `json:"document_type" validate:"required"`
	DocumentNumber string             `json:"document_number" validate:"required"`
	CompanyName    *string            `json:"company_name,omitempty"`
	ContactName    *string            `json:"contact_name,omitempty"`
}

// ForgotPasswordRequest asks for a reset link by account email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateClientDTO holds the data the repo needs to persist a client profile.
type CreateClientDTO struct {
	UserID              uuid.UUID
	ClientType          *enums.ClientType
	ProfilePicture      *string
	NeedsPasswordChange bool
	CreatedByAdmin      bool
}
