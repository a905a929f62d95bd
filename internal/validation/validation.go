// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// FirstMissing returns the name of the first empty field in fields, in
// declaration order, or "" when all are present.
func FirstMissing(fields map[string]string, order ...string) string {
	for _, name := range order {
		if fields[name] == "" {
			return name
		}
	}
	return ""
}
