package enums

import "fmt"

// Status represents the status_enum applied to users.
type Status string

const (
	StatusActivo   Status = "Activo"
	StatusInactivo Status = "Inactivo"
)

var validStatuses = []Status{
	StatusActivo,
	StatusInactivo,
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Status.
func (s Status) IsValid() bool {
	for _, candidate := range validStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatus converts raw input into a Status.
func ParseStatus(value string) (Status, error) {
	for _, candidate := range validStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", value)
}
