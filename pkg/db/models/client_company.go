package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientCompany stores company details for clients of type Empresa. A row
// exists only when the parent Client has that type, and is created in the
// same transaction.
type ClientCompany struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID    uuid.UUID `gorm:"column:client_id;type:uuid;not null;uniqueIndex:ux_client_companies_client_id"`
	CompanyName string    `gorm:"column:company_name;not null"`
	ContactName string    `gorm:"column:contact_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
