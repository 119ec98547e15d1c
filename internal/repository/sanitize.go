package repository

import "strings"

// sanitizeText removes NUL bytes, which PostgreSQL rejects in text fields.
func sanitizeText(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}
