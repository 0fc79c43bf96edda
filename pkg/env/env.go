// Package env reads process environment overrides that live outside the
// typed configuration, such as deploy-time knobs injected by the platform.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
