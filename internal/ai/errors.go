package ai

import (
	"errors"
	"fmt"
)

// ErrModelTimeout marks a model call that ran past its configured deadline.
var ErrModelTimeout = errors.New("model call timed out")

// ModelCallError is returned when the upstream generation service fails the call.
type ModelCallError struct {
	Model string
	Err   error
}

func (e *ModelCallError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("model call failed: %v", e.Err)
	}
	return fmt.Sprintf("model %s call failed: %v", e.Model, e.Err)
}

func (e *ModelCallError) Unwrap() error { return e.Err }

// ConfigurationError reports a missing or unusable setting needed to reach the model.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("configuration error: %s is not set", e.Setting)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
