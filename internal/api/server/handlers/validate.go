package handlers

import (
	"fmt"
	"unicode/utf8"
)

// ValidationError reports a message that breaks the length constraint.
type ValidationError struct {
	MaxLength int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("message must be no more than %d characters", e.MaxLength)
}

// ValidateMessage returns message unchanged when it has at most maxLength
// characters. Characters are Unicode code points, not bytes.
func ValidateMessage(message string, maxLength int) (string, error) {
	if utf8.RuneCountInString(message) > maxLength {
		return "", &ValidationError{MaxLength: maxLength}
	}
	return message, nil
}
