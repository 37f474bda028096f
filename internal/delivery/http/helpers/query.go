package helpers

import (
	"net/http"
	"strconv"
)

// List query parameter defaults and limits.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// ParseLimit reads the limit query parameter, clamped to [1, MaxListLimit].
// Invalid or missing values fall back to DefaultListLimit.
func ParseLimit(r *http.Request) int {
	limit := DefaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			limit = v
			if limit > MaxListLimit {
				limit = MaxListLimit
			}
		}
	}
	return limit
}

// ParseIntParam reads a named integer query parameter, falling back to def on
// missing or invalid values. Negative values are rejected.
func ParseIntParam(r *http.Request, name string, def int) int {
	if s := r.URL.Query().Get(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			return v
		}
	}
	return def
}
