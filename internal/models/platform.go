package models

import "strings"

// Platform is a broker or account that holds positions.
type Platform struct {
	Base
	Name string `gorm:"not null;uniqueIndex:uq_platforms_name" json:"name"`
}

// PlatformKey returns the lookup key used to dedupe platforms by name.
func PlatformKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
