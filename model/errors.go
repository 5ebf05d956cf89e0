package model

import (
	"errors"
	"fmt"
)

// Error codes classifying domain errors.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeConfiguration         = "CONFIGURATION_ERROR"
	CodeExternalService       = "EXTERNAL_SERVICE_ERROR"
	CodeCache                 = "CACHE_ERROR"
	CodeEncryptionUnavailable = "ENCRYPTION_UNAVAILABLE"
	CodeEncryption            = "ENCRYPTION_ERROR"
	CodeDecryption            = "DECRYPTION_ERROR"
)

// DomainError is the error type crossing component boundaries. Code is one of
// the constants above; Service is set for external-service failures.
type DomainError struct {
	Code    string
	Message string
	Service string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Service, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewValidationError reports malformed domain input. Never retried.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewConfigurationError reports missing or invalid startup configuration.
func NewConfigurationError(message string) *DomainError {
	return &DomainError{Code: CodeConfiguration, Message: message}
}

// NewExternalServiceError reports a failure talking to an upstream service.
func NewExternalServiceError(service, message string, err error) *DomainError {
	return &DomainError{Code: CodeExternalService, Message: message, Service: service, Err: err}
}

// NewCacheError reports a cache failure that is not attributable to an
// external service (local development, serialization).
func NewCacheError(message string, err error) *DomainError {
	return &DomainError{Code: CodeCache, Message: message, Err: err}
}

// NewEncryptionUnavailableError reports that no usable master secret is configured.
func NewEncryptionUnavailableError() *DomainError {
	return &DomainError{Code: CodeEncryptionUnavailable, Message: "encryption key not configured"}
}

// NewEncryptionError reports a failure while encrypting.
func NewEncryptionError(err error) *DomainError {
	return &DomainError{Code: CodeEncryption, Message: "encryption failed", Err: err}
}

// NewDecryptionError reports a failure while decrypting or authenticating.
func NewDecryptionError(err error) *DomainError {
	return &DomainError{Code: CodeDecryption, Message: "decryption failed", Err: err}
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
