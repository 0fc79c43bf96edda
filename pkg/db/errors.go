package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique
// constraint violation, optionally scoped to one constraint. Postgres names
// the index in its message; sqlite only reports the column as
// "UNIQUE constraint failed: table.column", so the named check rebuilds the
// index name from that target using the ux_<table>_<column> convention the
// schema follows.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if constraintName == "" {
		return unique
	}
	if !unique {
		return false
	}
	if strings.Contains(msg, constraintName) {
		return true
	}
	if _, target, ok := strings.Cut(msg, "UNIQUE constraint failed: "); ok {
		target = strings.TrimSpace(target)
		rebuilt := "ux_" + strings.ReplaceAll(target, ".", "_")
		return rebuilt == constraintName
	}
	return false
}
