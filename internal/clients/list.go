package clients

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/estilosboom/boom-backend/internal/users"
	"github.com/estilosboom/boom-backend/pkg/db/models"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
	"github.com/estilosboom/boom-backend/pkg/pagination"
)

// customerSortFields is the allow-list for customer listing sorts.
var customerSortFields = []string{"created_at", "email", "first_name", "last_name"}

// ListCustomersParams captures the admin customer-listing knobs.
type ListCustomersParams struct {
	Pagination pagination.Params
	Search     string
	ClientType *enums.ClientType
}

// ListCustomers returns a page of customer accounts for the admin panel.
func (s *service) ListCustomers(ctx context.Context, params ListCustomersParams) (*pagination.Page[users.UserDTO], error) {
	if params.ClientType != nil && !params.ClientType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filtro de tipo de cliente inválido")
	}

	var page *pagination.Page[users.UserDTO]
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		rows, total, err := s.clientRepo(tx).ListCustomers(ctx, params)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
		}

		items := make([]users.UserDTO, 0, len(rows))
		for i := range rows {
			items = append(items, *users.FromModel(&rows[i]))
		}
		page = &pagination.Page[users.UserDTO]{Items: items, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// ListCustomers queries users holding the Cliente role with their client
// profiles, applying search, type filter, sort allow-list and pagination.
func (r *Repository) ListCustomers(ctx context.Context, params ListCustomersParams) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN clients ON clients.user_id = users.id").
		Where("users.role = ?", enums.RoleCliente)

	if search := strings.TrimSpace(params.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(users.email) LIKE ? OR LOWER(users.first_name) LIKE ? OR LOWER(users.last_name) LIKE ? OR users.document_number LIKE ?",
			pattern, pattern, pattern, "%"+search+"%",
		)
	}
	if params.ClientType != nil {
		query = query.Where("clients.client_type = ?", *params.ClientType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	field, order := pagination.NormalizeSort(
		params.Pagination.SortField,
		params.Pagination.SortOrder,
		"created_at",
		customerSortFields,
	)

	var rows []models.User
	err := query.
		Preload("Client.Company").
		Order("users." + field + " " + order).
		Limit(pagination.NormalizeLimit(params.Pagination.Limit)).
		Offset(pagination.NormalizeOffset(params.Pagination.Offset)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
