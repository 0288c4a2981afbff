package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if len(username) < 2 {
		return fmt.Errorf("username must be at least 2 characters long")
	}

	if len(username) > 32 {
		return fmt.Errorf("username must not exceed 32 characters")
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, underscores, and hyphens")
	}

	if username[0] == '_' || username[0] == '-' || username[len(username)-1] == '_' || username[len(username)-1] == '-' {
		return fmt.Errorf("username cannot start or end with underscore or hyphen")
	}

	return nil
}

// ValidatePassword checks if a password meets length requirements.
// Lengths count characters, not bytes.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}

	if n > 100 {
		return fmt.Errorf("password must not exceed 100 characters")
	}

	return nil
}
