package models

import (
	"time"

	"github.com/estilosboom/boom-backend/pkg/enums"
	"github.com/google/uuid"
)

// Client holds the commerce-facing profile attached one-to-one to a User.
// It is only ever created inside the same transaction as its parent User.
type Client struct {
	ID                  uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_clients_user_id"`
	ClientType          *enums.ClientType `gorm:"column:client_type;type:text"`
	ProfilePicture      *string           `gorm:"column:profile_picture"`
	NeedsPasswordChange bool              `gorm:"column:needs_password_change;not null;default:false"`
	CreatedByAdmin      bool              `gorm:"column:created_by_admin;not null;default:false"`
	IsExtraDataComplete bool              `gorm:"column:is_extra_data_completed;not null;default:false"`
	Company             *ClientCompany    `gorm:"foreignKey:ClientID"`
	CreatedAt           time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
