package core

import (
	"errors"
	"fmt"
)

// ConfigError marks malformed or referentially inconsistent configuration.
// It is fatal at startup: the relay loop never begins.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Err: fmt.Errorf(format, args...)}
}

// ChainError marks a remote RPC or transport failure, or a protocol level
// rejection by the chain. Adapters retry these with their backoff budget and
// surface the last one once the budget is exhausted.
type ChainError struct {
	ChainID string
	Op      string
	Err     error
}

func (e *ChainError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("chain error: %s: %s: %v", e.ChainID, e.Op, e.Err)
	}

	return fmt.Sprintf("chain error: %s: %v", e.ChainID, e.Err)
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

// SerializationError marks a payload encode/decode failure. It is permanent
// and never retried.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization error: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// ValidationError marks a business rule or cryptographic check failure. The
// affected message is dropped for the current cycle but may reappear if the
// source chain emits it again.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Err: fmt.Errorf(format, args...)}
}

func IsConfigError(err error) bool {
	var target *ConfigError

	return errors.As(err, &target)
}

func IsChainError(err error) bool {
	var target *ChainError

	return errors.As(err, &target)
}

func IsSerializationError(err error) bool {
	var target *SerializationError

	return errors.As(err, &target)
}

func IsValidationError(err error) bool {
	var target *ValidationError

	return errors.As(err, &target)
}
