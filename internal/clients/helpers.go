package clients

import (
	"github.com/estilosboom/boom-backend/pkg/db"
	"github.com/estilosboom/boom-backend/pkg/enums"
	pkgerrors "github.com/estilosboom/boom-backend/pkg/errors"
)

// classifyCreateUserError turns storage-level unique violations into the
// domain conflicts callers expect.
func classifyCreateUserError(err error) error {
	switch {
	case db.IsUniqueViolation(err, "ux_users_email"):
		return pkgerrors.New(pkgerrors.CodeEmailExists, "el correo ya fue registrado previamente")
	case db.IsUniqueViolation(err, "ux_users_document_number"):
		return pkgerrors.New(pkgerrors.CodeDocumentExists, "el número de documento ya está registrado")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
}

// validateConditionalFields enforces the Persona/Empresa field rules shared
// by the admin-create and extra-data flows.
func validateConditionalFields(clientType enums.ClientType, firstName, lastName, companyName, contactName *string) error {
	if !clientType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "tipo de cliente inválido")
	}

	switch clientType {
	case enums.ClientTypePersona:
		if isBlank(firstName) || isBlank(lastName) {
			return pkgerrors.New(pkgerrors.CodeValidation, "nombre y apellido son obligatorios para clientes Persona")
		}
	case enums.ClientTypeEmpresa:
		if isBlank(companyName) || isBlank(contactName) {
			return pkgerrors.New(pkgerrors.CodeValidation, "razón social y nombre de contacto son obligatorios para clientes Empresa")
		}
	}
	return nil
}

func isBlank(value *string) bool {
	return value == nil || *value == ""
}
