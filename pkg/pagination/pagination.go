package pagination

import "strings"

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 5
	// MaxLimit caps how many rows any listing query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit     int
	Offset    int
	SortField string
	SortOrder string
}

// Page wraps a result slice with the total row count for the filter.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// NormalizeSort returns a safe sort expression: the field must be in the
// allow-list (fallback otherwise) and the order collapses to asc/desc.
func NormalizeSort(field, order, fallback string, allowed []string) (string, string) {
	field = strings.TrimSpace(field)
	ok := false
	for _, candidate := range allowed {
		if candidate == field {
			ok = true
			break
		}
	}
	if !ok {
		field = fallback
	}
	if strings.EqualFold(order, "desc") {
		return field, "desc"
	}
	return field, "asc"
}
