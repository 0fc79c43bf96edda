package enums

import "fmt"

// Role represents the canonical role_enum in Postgres. The literals are the
// Spanish values the platform has carried since its first schema.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleCliente       Role = "Cliente"
	RoleWorker        Role = "Trabajador"
)

var validRoles = []Role{
	RoleAdministrador,
	RoleCliente,
	RoleWorker,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
