package models

import (
	"time"

	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. AuthID stays null until the
// record is linked to the external identity provider, and once set it is
// never reassigned.
type User struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string              `gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	AuthID         *string             `gorm:"column:auth_id;uniqueIndex:ux_users_auth_id"`
	Role           enums.Role          `gorm:"type:text;not null;default:'Cliente'"`
	Status         enums.Status        `gorm:"type:text;not null;default:'Activo'"`
	Phone          *string             `gorm:"column:phone"`
	FirstName      *string             `gorm:"column:first_name"`
	LastName       *string             `gorm:"column:last_name"`
	DocumentType   *enums.DocumentType `gorm:"column:document_type;type:text"`
	DocumentNumber *string             `gorm:"column:document_number;uniqueIndex:ux_users_document_number"`
	Client         *Client             `gorm:"foreignKey:UserID"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
