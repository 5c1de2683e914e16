package validation

import (
	"strings"
)

// ValidateName validates profile name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return invalid("name is required")
	}

	if len(trimmed) > 100 {
		return invalid("name is too long (max 100 characters)")
	}

	return nil
}
