package config

import (
	"os"
	"strings"
)

// IsProduction reports whether the process runs with production hardening
// (strict CORS allowlist, no permissive defaults).
//
// Set via env:
// - GO_ENV=production
func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

// SkipMigrations disables AutoMigrate on startup so DDL can be run as a
// separate job instead of blocking request-serving revisions.
//
// Set via env:
// - SKIP_MIGRATIONS=true
func SkipMigrations() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
