package utils

import (
	"os"
	"strings"
)

// Getenv reads the named environment variable, falling back to the given
// default when the variable is unset or empty.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetenvList reads a comma-separated environment variable into a slice,
// trimming whitespace around each entry. Unset or empty variables yield the
// fallback slice unchanged.
func GetenvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	entries := make([]string, 0, len(parts))
	for _, part := range parts {
		if entry := strings.TrimSpace(part); entry != "" {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return fallback
	}
	return entries
}
