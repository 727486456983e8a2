package advisor

import (
	"errors"
	"fmt"
)

var (
	// ErrParseFailure indicates the model's extraction reply was not the expected JSON object.
	ErrParseFailure = errors.New("could not parse model reply")

	// ErrProfileNotFound indicates no profile is stored for the user id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMissingUserID indicates a profile operation was called without a user id.
	ErrMissingUserID = errors.New("user id is required")
)

// ConfigError reports an invalid Advisor configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("advisor config: %s: %s", e.Field, e.Message)
}
