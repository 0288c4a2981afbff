// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
)

var flowNameRegex = regexp.MustCompile(`^[A-Za-z0-9-]{1,32}$`)

var reservedFlowNames = map[string]struct{}{
	"api":      {},
	"auth":     {},
	"flows":    {},
	"posts":    {},
	"comments": {},
	"users":    {},
	"search":   {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
}

// ValidateFlowName validates flow name format and reserved names.
// Names are case sensitive; "Cats" and "cats" are distinct flows.
func ValidateFlowName(name string) error {
	if !flowNameRegex.MatchString(name) {
		return fmt.Errorf("flow name must be 1-32 characters and contain only letters, numbers, and hyphens")
	}

	if _, exists := reservedFlowNames[name]; exists {
		return fmt.Errorf("flow name is reserved")
	}

	return nil
}
