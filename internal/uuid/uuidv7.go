// Package uuid generates the identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7 string. UUIDv7 values are time-ordered, so
// rows inserted in one import batch sort in creation order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the clock sequence cannot be read.
		return googleuuid.New().String()
	}
	return id.String()
}

// seedNamespace scopes the name-based identifiers of sample data.
var seedNamespace = googleuuid.MustParse("6f0f6a52-8f0c-4a3e-9a5e-3c1d2b7e9a10")

// Named returns a stable UUIDv5 for name, so re-inserting the same sample
// rows updates them instead of duplicating them.
func Named(name string) string {
	return googleuuid.NewSHA1(seedNamespace, []byte(name)).String()
}

// Parse validates and normalizes a UUID string.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
