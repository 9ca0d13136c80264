package shared

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeBootstrap       ErrorType = "bootstrap"
	ErrorTypeTokenResolution ErrorType = "token_resolution"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeConfiguration   ErrorType = "configuration"
	ErrorTypeExternal        ErrorType = "external"
)

// DomainError represents a structured error with additional context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError of the same type
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// MarshalLogObject implements zapcore.ObjectMarshaler so details reach the log
func (e *DomainError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", string(e.Type))
	enc.AddString("message", e.Message)
	if e.Err != nil {
		enc.AddString("cause", e.Err.Error())
	}
	if len(e.Details) > 0 {
		return enc.AddReflected("details", e.Details)
	}
	return nil
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// IsBootstrapError checks if an error is a bootstrap failure
func IsBootstrapError(err error) bool {
	return hasType(err, ErrorTypeBootstrap)
}

// WrapBootstrap wraps an error as a fatal bootstrap failure
func WrapBootstrap(message string, err error) error {
	return NewDomainError(ErrorTypeBootstrap, message, err)
}

// WrapTokenResolution wraps an error as a token resolution failure
func WrapTokenResolution(message string, err error) error {
	return NewDomainError(ErrorTypeTokenResolution, message, err)
}

// WrapExternal wraps an error as an identity provider failure
func WrapExternal(message string, err error) error {
	return NewDomainError(ErrorTypeExternal, message, err)
}

func hasType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}
